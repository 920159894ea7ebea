package db_models

// Identity is the credential record owned by the identity backend.
type Identity struct {
	BaseModel
	Email            string `gorm:"uniqueIndex;not null"`
	PasswordHash     string `gorm:"not null"`
	Name             string
	EmailConfirmedAt *int64
	LastSignInAt     *int64
}

func (i *Identity) EmailConfirmed() bool {
	return i.EmailConfirmedAt != nil
}
