package models

// Blacklist holds revoked JWTs so logged-out tokens stop working before expiry.
type Blacklist struct {
	Model
	Email string `json:"email"`
	Token string `json:"token" gorm:"type:varchar(1024);index"`
}
