package portability

// Kind identifies one entity type in a family's data graph.
type Kind string

const (
	KindFamily       Kind = "family"
	KindMembership   Kind = "membership"
	KindPost         Kind = "post"
	KindMediaItem    Kind = "media_item"
	KindMediaVariant Kind = "media_variant"
	KindEvent        Kind = "event"
	KindRecipe       Kind = "recipe"
	KindConversation Kind = "conversation"
	KindMessage      Kind = "message"
	KindVault        Kind = "vault"
	KindVaultItem    Kind = "vault_item"
	KindRelationship Kind = "relationship"
	KindAuditEvent   Kind = "audit_event"
)

// kinds lists every entity kind. Declaration order breaks ties when deriving
// the insertion order, so it doubles as the preferred processing sequence;
// deletion runs the derived order in reverse, message rows first and the
// family row always last.
var kinds = []Kind{
	KindFamily,
	KindAuditEvent,
	KindMembership,
	KindRelationship,
	KindPost,
	KindMediaItem,
	KindMediaVariant,
	KindRecipe,
	KindEvent,
	KindVault,
	KindVaultItem,
	KindConversation,
	KindMessage,
}

var tables = map[Kind]string{
	KindFamily:       "families",
	KindMembership:   "memberships",
	KindPost:         "posts",
	KindMediaItem:    "media_items",
	KindMediaVariant: "media_variants",
	KindEvent:        "events",
	KindRecipe:       "recipes",
	KindConversation: "conversations",
	KindMessage:      "messages",
	KindVault:        "vaults",
	KindVaultItem:    "vault_items",
	KindRelationship: "relationships",
	KindAuditEvent:   "audit_events",
}

// Table returns the storage table backing the kind.
func (k Kind) Table() string {
	return tables[k]
}

// dependencies maps each kind to the kinds it references. Insertion must
// place every referenced kind first; deletion runs the derived order in
// reverse.
var dependencies = map[Kind][]Kind{
	KindFamily:       nil,
	KindMembership:   {KindFamily},
	KindPost:         {KindFamily, KindMembership},
	KindMediaItem:    {KindFamily, KindMembership},
	KindMediaVariant: {KindMediaItem},
	KindEvent:        {KindFamily, KindMembership},
	KindRecipe:       {KindFamily, KindMembership},
	KindConversation: {KindFamily},
	KindMessage:      {KindConversation, KindMembership},
	KindVault:        {KindFamily, KindMembership},
	KindVaultItem:    {KindVault},
	KindRelationship: {KindFamily, KindMembership},
	KindAuditEvent:   {KindFamily},
}

// InsertOrder returns the entity kinds topologically sorted so every kind
// appears after everything it references. The sort is deterministic: among
// ready kinds the one declared first wins.
func InsertOrder() []Kind {
	indegree := make(map[Kind]int, len(kinds))
	for _, k := range kinds {
		indegree[k] = len(dependencies[k])
	}

	order := make([]Kind, 0, len(kinds))
	placed := make(map[Kind]bool, len(kinds))
	for len(order) < len(kinds) {
		next := Kind("")
		for _, k := range kinds {
			if !placed[k] && indegree[k] == 0 {
				next = k
				break
			}
		}
		if next == "" {
			panic("portability: cycle in entity dependency graph")
		}

		order = append(order, next)
		placed[next] = true
		for _, k := range kinds {
			if placed[k] {
				continue
			}
			for _, dep := range dependencies[k] {
				if dep == next {
					indegree[k]--
				}
			}
		}
	}
	return order
}

// DeleteOrder returns the reverse of InsertOrder: children first, the family
// row always last.
func DeleteOrder() []Kind {
	ins := InsertOrder()
	order := make([]Kind, len(ins))
	for i, k := range ins {
		order[len(ins)-1-i] = k
	}
	return order
}
