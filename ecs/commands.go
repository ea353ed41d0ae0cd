package ecs

import "github.com/rotisserie/eris"

// Commands provides a buffer for deferred structural operations that are applied
// once every system has handled the current event. Systems queue changes here
// instead of mutating the world while a query may still be running.
type Commands struct {
	creates  []createCommand
	destroys []EntityId
	attaches []attachCommand
	detaches []detachCommand
	defers   []func()
}

func newCommands() *Commands {
	return &Commands{}
}

type createCommand struct {
	components []any
}

type attachCommand struct {
	entity    EntityId
	component any
}

type detachCommand struct {
	entity EntityId
	kind   Kind
}

// Defer queues a function to run after every other command has been applied.
func (c *Commands) Defer(fn func()) {
	c.defers = append(c.defers, fn)
}

// Create queues creation of an entity holding the given components.
func (c *Commands) Create(components ...any) {
	c.creates = append(c.creates, createCommand{components: components})
}

// Destroy queues destruction of an entity.
func (c *Commands) Destroy(entity EntityId) {
	c.destroys = append(c.destroys, entity)
}

// Attach queues attaching component to entity under the component's kind.
func (c *Commands) Attach(entity EntityId, component any) {
	c.attaches = append(c.attaches, attachCommand{entity: entity, component: component})
}

// Detach queues removal of the kind component from entity.
func (c *Commands) Detach(entity EntityId, kind Kind) {
	c.detaches = append(c.detaches, detachCommand{entity: entity, kind: kind})
}

// Len returns the number of queued commands.
func (c *Commands) Len() int {
	return len(c.creates) + len(c.destroys) + len(c.attaches) + len(c.detaches) + len(c.defers)
}

// Flush applies all queued commands to world and resets the buffer. Destroys
// run first, then detaches, attaches, creates and finally deferred functions.
// Operations targeting an entity destroyed in the same flush are skipped.
// Every command is applied even if an earlier one fails; the first error is
// returned.
func (c *Commands) Flush(world *World) error {
	defer c.Reset()

	var first error
	record := func(err error) {
		if err != nil && first == nil {
			first = err
		}
	}

	destroyed := make(map[EntityId]bool, len(c.destroys))
	for _, id := range c.destroys {
		world.Destroy(id)
		destroyed[id] = true
	}

	for _, cmd := range c.detaches {
		if !destroyed[cmd.entity] {
			world.Detach(cmd.entity, cmd.kind)
		}
	}

	for _, cmd := range c.attaches {
		if destroyed[cmd.entity] {
			continue
		}
		if cmd.component == nil {
			record(eris.Wrapf(ErrKindMismatch, "attach nil component to entity %d", cmd.entity))
			continue
		}
		record(world.Attach(cmd.entity, kindOfValue(cmd.component), cmd.component))
	}

	for _, cmd := range c.creates {
		_, err := world.Spawn(cmd.components...)
		record(err)
	}

	for _, fn := range c.defers {
		fn()
	}

	return first
}

// Reset discards every queued command.
func (c *Commands) Reset() {
	c.creates = c.creates[:0]
	c.destroys = c.destroys[:0]
	c.attaches = c.attaches[:0]
	c.detaches = c.detaches[:0]
	c.defers = c.defers[:0]
}
