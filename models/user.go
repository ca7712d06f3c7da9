package models

import "time"

// User is an account mirrored from the identity provider.
type User struct {
	ID          string      `json:"id" gorm:"column:id;type:varchar(100);primaryKey"`
	Login       string      `json:"login" gorm:"column:login;type:varchar(50);uniqueIndex;not null" validate:"notblank,max=50"`
	FirstName   string      `json:"firstName,omitempty" gorm:"column:first_name;type:varchar(50)"`
	LastName    string      `json:"lastName,omitempty" gorm:"column:last_name;type:varchar(50)"`
	Email       string      `json:"email,omitempty" gorm:"column:email;type:varchar(191)"`
	ImageURL    string      `json:"imageUrl,omitempty" gorm:"column:image_url;type:varchar(256)"`
	Activated   bool        `json:"activated" gorm:"column:activated;not null;default:false"`
	LangKey     string      `json:"langKey,omitempty" gorm:"column:lang_key;type:varchar(10)"`
	Authorities []Authority `json:"-" validate:"-" gorm:"many2many:jhi_user_authority;foreignKey:ID;joinForeignKey:UserID;references:Name;joinReferences:AuthorityName"`

	Auditing `gorm:"embedded"`
}

func (User) TableName() string {
	return "jhi_user"
}

func (u User) Validate() error {
	return validateStruct(u)
}

// PublicUser is the projection exposed to any authenticated caller.
type PublicUser struct {
	ID    string `json:"id"`
	Login string `json:"login"`
}

func (u User) Public() PublicUser {
	return PublicUser{ID: u.ID, Login: u.Login}
}

// AdminUser is the full account view returned by /api/account and the
// admin endpoints.
type AdminUser struct {
	ID               string    `json:"id"`
	Login            string    `json:"login"`
	FirstName        string    `json:"firstName,omitempty"`
	LastName         string    `json:"lastName,omitempty"`
	Email            string    `json:"email,omitempty"`
	ImageURL         string    `json:"imageUrl,omitempty"`
	Activated        bool      `json:"activated"`
	LangKey          string    `json:"langKey,omitempty"`
	CreatedBy        string    `json:"createdBy,omitempty"`
	CreatedDate      time.Time `json:"createdDate"`
	LastModifiedBy   string    `json:"lastModifiedBy,omitempty"`
	LastModifiedDate time.Time `json:"lastModifiedDate"`
	Authorities      []string  `json:"authorities"`
}

func (u User) Admin() AdminUser {
	return AdminUser{
		ID:               u.ID,
		Login:            u.Login,
		FirstName:        u.FirstName,
		LastName:         u.LastName,
		Email:            u.Email,
		ImageURL:         u.ImageURL,
		Activated:        u.Activated,
		LangKey:          u.LangKey,
		CreatedBy:        u.CreatedBy,
		CreatedDate:      u.CreatedDate,
		LastModifiedBy:   u.LastModifiedBy,
		LastModifiedDate: u.LastModifiedDate,
		Authorities:      AuthorityNames(u.Authorities),
	}
}
