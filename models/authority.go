package models

const (
	RoleAdmin     = "ROLE_ADMIN"
	RoleUser      = "ROLE_USER"
	RoleAnonymous = "ROLE_ANONYMOUS"

	// RolePrefix marks IdP groups that map onto authorities.
	RolePrefix = "ROLE_"
)

// Authority is a role identifier shared by users.
type Authority struct {
	Name string `json:"name" gorm:"column:name;type:varchar(50);primaryKey" validate:"notblank,max=50"`
}

func (Authority) TableName() string {
	return "jhi_authority"
}

func (a Authority) Validate() error {
	return validateStruct(a)
}

// AuthorityNames flattens authorities into their names.
func AuthorityNames(authorities []Authority) []string {
	names := make([]string, 0, len(authorities))
	for _, a := range authorities {
		names = append(names, a.Name)
	}
	return names
}
