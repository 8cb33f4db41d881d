package model

import "github.com/google/uuid"

// Profile is the practitioner's public-facing card and booking-link settings.
// Photo and social links are ordinary columns here; nothing lives outside the
// store.
type Profile struct {
	Base
	UserID        uuid.UUID `db:"user_id" json:"user_id"`
	Name          string    `db:"name" json:"name"`
	Specialty     *string   `db:"specialty" json:"specialty,omitempty"`
	Phone         *string   `db:"phone" json:"phone,omitempty"`
	Email         string    `db:"email" json:"email"`
	PublicSlug    string    `db:"public_slug" json:"public_slug"`
	PublicEnabled bool      `db:"public_enabled" json:"public_enabled"`
	PhotoURL      *string   `db:"photo_url" json:"photo_url,omitempty"`
	Instagram     *string   `db:"instagram" json:"instagram,omitempty"`
	TikTok        *string   `db:"tiktok" json:"tiktok,omitempty"`
	Facebook      *string   `db:"facebook" json:"facebook,omitempty"`
	LinkedIn      *string   `db:"linkedin" json:"linkedin,omitempty"`
}

type UpdateProfileRequest struct {
	Name          *string `json:"name" binding:"omitempty,max=200"`
	Specialty     *string `json:"specialty" binding:"omitempty,max=100"`
	Phone         *string `json:"phone" binding:"omitempty,max=30"`
	PublicSlug    *string `json:"public_slug" binding:"omitempty,min=3,max=60,alphanum"`
	PublicEnabled *bool   `json:"public_enabled"`
	PhotoURL      *string `json:"photo_url" binding:"omitempty,url"`
	Instagram     *string `json:"instagram" binding:"omitempty,max=100"`
	TikTok        *string `json:"tiktok" binding:"omitempty,max=100"`
	Facebook      *string `json:"facebook" binding:"omitempty,max=100"`
	LinkedIn      *string `json:"linkedin" binding:"omitempty,max=100"`
}

// PublicProfile is the subset exposed on the public booking page.
type PublicProfile struct {
	Name      string  `json:"name"`
	Specialty *string `json:"specialty,omitempty"`
	Phone     *string `json:"phone,omitempty"`
	Email     string  `json:"email"`
	PhotoURL  *string `json:"photo_url,omitempty"`
	Instagram *string `json:"instagram,omitempty"`
	TikTok    *string `json:"tiktok,omitempty"`
	Facebook  *string `json:"facebook,omitempty"`
	LinkedIn  *string `json:"linkedin,omitempty"`
}

func (p *Profile) Public() *PublicProfile {
	return &PublicProfile{
		Name:      p.Name,
		Specialty: p.Specialty,
		Phone:     p.Phone,
		Email:     p.Email,
		PhotoURL:  p.PhotoURL,
		Instagram: p.Instagram,
		TikTok:    p.TikTok,
		Facebook:  p.Facebook,
		LinkedIn:  p.LinkedIn,
	}
}
