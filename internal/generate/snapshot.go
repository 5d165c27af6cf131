package generate

import (
	"context"

	"docgen/internal/models"
)

// snapshot is one consistent read view of the catalog, taken before any
// rendering starts. Value edits that land mid-batch cannot mix pre- and
// post-edit values across clients because rendering never touches the store.
type snapshot struct {
	entityByCode map[string]uint            // placeholder key -> entity id
	values       map[uint]map[uint]string   // entity id -> client id -> text
	clients      map[uint]models.Client
}

func (g *Generator) takeSnapshot(ctx context.Context, clientIDs []uint) (*snapshot, error) {
	entities, err := g.catalog.Entities(ctx)
	if err != nil {
		return nil, err
	}

	// Distinct ids for the store reads; the batch itself keeps repeats.
	distinct := make([]uint, 0, len(clientIDs))
	seen := make(map[uint]bool, len(clientIDs))
	for _, id := range clientIDs {
		if !seen[id] {
			seen[id] = true
			distinct = append(distinct, id)
		}
	}

	clients, err := g.catalog.ClientsByID(ctx, distinct)
	if err != nil {
		return nil, err
	}
	byID := make(map[uint]models.Client, len(clients))
	for _, c := range clients {
		byID[c.ID] = c
	}
	for _, id := range clientIDs {
		if _, ok := byID[id]; !ok {
			return nil, &NotFoundError{Kind: "Client", ID: id}
		}
	}

	values, err := g.catalog.ValuesForClients(ctx, distinct)
	if err != nil {
		return nil, err
	}

	snap := &snapshot{
		entityByCode: make(map[string]uint, len(entities)),
		values:       make(map[uint]map[uint]string),
		clients:      byID,
	}
	for _, e := range entities {
		snap.entityByCode[e.Code] = e.ID
	}
	for _, v := range values {
		perClient := snap.values[v.EntityID]
		if perClient == nil {
			perClient = make(map[uint]string)
			snap.values[v.EntityID] = perClient
		}
		perClient[v.ClientID] = v.ValueText
	}
	return snap, nil
}

// resolve looks a placeholder key up for one client. ok distinguishes a
// bound value from a per-client gap; a key with no entity at all is the
// caller's unresolvable case and is checked before rendering starts.
func (s *snapshot) resolve(key string, clientID uint) (text string, ok bool) {
	entityID, known := s.entityByCode[key]
	if !known {
		return "", false
	}
	text, ok = s.values[entityID][clientID]
	return text, ok
}

// unresolvable returns the first template key no entity defines, in sorted
// key order.
func (s *snapshot) unresolvable(keys []string) (string, bool) {
	for _, key := range keys {
		if _, known := s.entityByCode[key]; !known {
			return key, true
		}
	}
	return "", false
}
