package models

// Invitation is a single-use code issued by a representative.
type Invitation struct {
	ID        int64      `json:"id"`
	Code      string     `json:"code"`
	IsUsed    bool       `json:"is_used"`
	CreatedAt Timestamp  `json:"created_at"`
	UsedAt    *Timestamp `json:"used_at"`
	SenderID  int64      `json:"sender_id"`
}

// Consistent reports whether UsedAt is set exactly when the invitation is used.
func (i *Invitation) Consistent() bool {
	return i.IsUsed == (i.UsedAt != nil && !i.UsedAt.IsZero())
}
