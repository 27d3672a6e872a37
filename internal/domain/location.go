package domain

// Location is a node of the nested-set location tree. Every descendant D of
// a node N satisfies N.Lft <= D.Lft and D.Rght <= N.Rght.
type Location struct {
	ID       int64  `db:"id" json:"id"`
	Name     string `db:"name" json:"name"`
	Type     string `db:"type_id" json:"type"`
	ParentID *int64 `db:"parent_id" json:"parent_id,omitempty"`
	TreeID   int64  `db:"tree_id" json:"tree_id"`
	Lft      int64  `db:"lft" json:"lft"`
	Rght     int64  `db:"rght" json:"rght"`
}

// Contains reports whether o is l or one of its descendants.
func (l *Location) Contains(o *Location) bool {
	return l.TreeID == o.TreeID && l.Lft <= o.Lft && o.Rght <= l.Rght
}

// Span is rght - lft; zero-width spans belong to leaves.
func (l *Location) Span() int64 {
	return l.Rght - l.Lft
}
