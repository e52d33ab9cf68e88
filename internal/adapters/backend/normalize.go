package backend

import (
	"encoding/json"

	"academy/internal/application/dateutil"
	"academy/internal/domain/child"
)

// childPayload matches the backend's child shape. The group field is
// polymorphic: some endpoints embed the group object, others send
// just the group name.
type childPayload struct {
	ID             int64           `json:"id"`
	FullName       string          `json:"full_name"`
	BirthDate      string          `json:"birth_date"`
	ParentName     string          `json:"parent_name"`
	PhoneNumber    string          `json:"phone_number"`
	Group          json.RawMessage `json:"group"`
	UnreadComments int             `json:"unread_comments_count"`
	IsActive       *bool           `json:"is_active"`
}

type groupRef struct {
	ID                 int64  `json:"id"`
	Name               string `json:"name"`
	KindergartenNumber string `json:"kindergarten_number"`
}

func (p childPayload) toChild() child.Child {
	c := child.Child{
		ID:             p.ID,
		FullName:       p.FullName,
		BirthDate:      dateutil.ToISO(p.BirthDate),
		ParentName:     p.ParentName,
		PhoneNumber:    p.PhoneNumber,
		UnreadComments: p.UnreadComments,
		IsActive:       p.IsActive == nil || *p.IsActive,
	}
	if len(p.Group) == 0 {
		return c
	}
	var ref groupRef
	if err := json.Unmarshal(p.Group, &ref); err == nil {
		c.GroupID = ref.ID
		c.GroupName = ref.Name
		c.KindergartenNumber = ref.KindergartenNumber
		return c
	}
	var name string
	if err := json.Unmarshal(p.Group, &name); err == nil {
		c.GroupName = name
	}
	return c
}

// decodeChildList normalizes the backend's two response shapes,
// {"child": {...}} and {"children": [...]}, into one canonical slice.
// The single-child case is wrapped; the ambiguity stays inside this
// one adapter function.
func decodeChildList(raw json.RawMessage) ([]child.Child, error) {
	var payload struct {
		Child    *childPayload  `json:"child"`
		Children []childPayload `json:"children"`
	}
	if err := json.Unmarshal(raw, &payload); err != nil {
		return nil, &APIError{Message: "некорректный ответ сервера"}
	}
	if payload.Child != nil {
		return []child.Child{payload.Child.toChild()}, nil
	}
	children := make([]child.Child, 0, len(payload.Children))
	for _, p := range payload.Children {
		children = append(children, p.toChild())
	}
	return children, nil
}
