package debugui

import (
	"cmp"
	"slices"
	"strings"

	"github.com/plus3/strata/ecs"
)

// EntityInfo describes one live entity for the entity browser.
type EntityInfo struct {
	ID             ecs.EntityId
	Generation     uint32
	Signature      string
	ComponentTypes []string
	ComponentCount int
}

// SignatureInfo groups the entities sharing one exact set of kinds.
type SignatureInfo struct {
	Signature      string
	ComponentTypes []string
	EntityCount    int
}

func kindNames(set *ecs.KindSet) []string {
	kinds := set.Kinds()
	names := make([]string, len(kinds))
	for i, k := range kinds {
		names[i] = k.String()
	}
	return names
}

// CollectEntities snapshots every live entity of world, ordered by id.
func CollectEntities(world *ecs.World) []EntityInfo {
	entities := make([]EntityInfo, 0, world.Registry().Len())
	for id := range world.Entities() {
		set, ok := world.KindsOf(id)
		if !ok {
			continue
		}
		ref, _ := world.Ref(id)
		names := kindNames(set)
		entities = append(entities, EntityInfo{
			ID:             id,
			Generation:     ref.Generation,
			Signature:      set.String(),
			ComponentTypes: names,
			ComponentCount: len(names),
		})
	}
	slices.SortFunc(entities, func(a, b EntityInfo) int { return cmp.Compare(a.ID, b.ID) })
	return entities
}

// CollectSignatures groups the entities of world by their kind set. The
// result is ordered by descending entity count, then signature.
func CollectSignatures(world *ecs.World) []SignatureInfo {
	bySig := make(map[string]*SignatureInfo)
	for _, e := range CollectEntities(world) {
		info, ok := bySig[e.Signature]
		if !ok {
			info = &SignatureInfo{Signature: e.Signature, ComponentTypes: e.ComponentTypes}
			bySig[e.Signature] = info
		}
		info.EntityCount++
	}

	out := make([]SignatureInfo, 0, len(bySig))
	for _, info := range bySig {
		out = append(out, *info)
	}
	slices.SortFunc(out, func(a, b SignatureInfo) int {
		if c := cmp.Compare(b.EntityCount, a.EntityCount); c != 0 {
			return c
		}
		return strings.Compare(a.Signature, b.Signature)
	})
	return out
}

// FilterEntities returns the entities whose id, signature or component type
// names contain text, case-insensitively, and whose signature equals
// signature when it is not empty.
func FilterEntities(entities []EntityInfo, text, signature string) []EntityInfo {
	if text == "" && signature == "" {
		return entities
	}

	filtered := make([]EntityInfo, 0, len(entities))
	filterLower := strings.ToLower(text)

	for _, entity := range entities {
		if signature != "" && entity.Signature != signature {
			continue
		}

		if text != "" {
			idStr := entity.ID.String()
			componentsStr := strings.ToLower(strings.Join(entity.ComponentTypes, " "))

			if !strings.Contains(idStr, filterLower) &&
				!strings.Contains(strings.ToLower(entity.Signature), filterLower) &&
				!strings.Contains(componentsStr, filterLower) {
				continue
			}
		}

		filtered = append(filtered, entity)
	}

	return filtered
}

// MatchingEntities counts the live entities holding every kind in kinds.
func MatchingEntities(world *ecs.World, kinds []ecs.Kind) int {
	if len(kinds) == 0 {
		return 0
	}
	access := make([]ecs.Access, len(kinds))
	for i, k := range kinds {
		access[i] = ecs.Read(k)
	}
	n := 0
	for range world.Query(access...) {
		n++
	}
	return n
}

// KnownKinds returns every kind attached to at least one live entity, in
// ascending order.
func KnownKinds(world *ecs.World) []ecs.Kind {
	stats := world.Stats()
	kinds := make([]ecs.Kind, len(stats.Kinds))
	for i, k := range stats.Kinds {
		kinds[i] = k.Kind
	}
	return kinds
}
