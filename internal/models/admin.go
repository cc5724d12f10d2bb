package models

// Admin is a back-office account with full access to the admin API.
type Admin struct {
	BaseModel
	Username     string `gorm:"uniqueIndex" json:"username"`
	PasswordHash string `json:"-"`
}

// Member represents a registered temple member (umat).
type Member struct {
	BaseModel
	Name    string `json:"name"`
	Contact string `json:"contact"`
	Address string `json:"address"`
	Email   string `gorm:"index" json:"email"`
}
