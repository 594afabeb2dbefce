package namedresource

type ListQuery struct {
	AssignedOnly int `query:"assigned_only" json:"assigned_only,omitempty" validate:"oneof=0 1"`
}

type UpdatePayload struct {
	Name *string `json:"name,omitempty" validate:"omitempty,min=1,max=255"`
}
