package models

import "time"

// SystemAccount is recorded as the auditor when no user is authenticated.
const SystemAccount = "system"

// Auditing holds the created/modified stamps. Clients may read them but the
// server always overwrites what they send.
type Auditing struct {
	CreatedBy        string    `json:"createdBy,omitempty" bson:"created_by" gorm:"column:created_by;type:varchar(50);not null"`
	CreatedDate      time.Time `json:"createdDate" bson:"created_date" gorm:"column:created_date"`
	LastModifiedBy   string    `json:"lastModifiedBy,omitempty" bson:"last_modified_by" gorm:"column:last_modified_by;type:varchar(50)"`
	LastModifiedDate time.Time `json:"lastModifiedDate" bson:"last_modified_date" gorm:"column:last_modified_date"`
}

// StampCreated marks a new record as created and modified by auditor.
func (a *Auditing) StampCreated(auditor string, now time.Time) {
	if auditor == "" {
		auditor = SystemAccount
	}
	a.CreatedBy = auditor
	a.CreatedDate = now
	a.LastModifiedBy = auditor
	a.LastModifiedDate = now
}

// StampModified keeps the creation stamps of previous and records a new
// modification.
func (a *Auditing) StampModified(previous Auditing, auditor string, now time.Time) {
	if auditor == "" {
		auditor = SystemAccount
	}
	a.CreatedBy = previous.CreatedBy
	a.CreatedDate = previous.CreatedDate
	a.LastModifiedBy = auditor
	a.LastModifiedDate = now
}
