package models

import "time"

type Prompt struct {
	ID        uint64    `gorm:"primarykey" json:"id"`
	ProjectID uint64    `gorm:"not null;uniqueIndex:idx_prompts_project_slug" json:"project_id"`
	Slug      string    `gorm:"type:varchar(100);not null;uniqueIndex:idx_prompts_project_slug" json:"slug"`
	Title     string    `gorm:"type:varchar(255);not null" json:"title"`
	Category  string    `gorm:"type:varchar(100);not null;default:'general'" json:"category"`
	CreatedBy uint64    `gorm:"not null" json:"created_by"`
	CreatedAt time.Time `json:"created_at"`
	UpdatedAt time.Time `json:"updated_at"`

	// Relations
	Project  Project         `gorm:"foreignKey:ProjectID" json:"-"`
	Versions []PromptVersion `gorm:"foreignKey:PromptID;constraint:OnDelete:CASCADE" json:"-"`
}

// PromptVersion is an immutable snapshot of a prompt's content.
type PromptVersion struct {
	ID        uint64    `gorm:"primarykey" json:"id"`
	PromptID  uint64    `gorm:"not null;uniqueIndex:idx_prompt_versions_prompt_version" json:"prompt_id"`
	Version   int       `gorm:"not null;uniqueIndex:idx_prompt_versions_prompt_version" json:"version"`
	Content   string    `gorm:"type:text;not null" json:"content"`
	Message   string    `gorm:"type:varchar(500)" json:"message"`
	AuthorID  uint64    `gorm:"not null" json:"author_id"`
	CreatedAt time.Time `json:"created_at"`

	// Relations
	Prompt Prompt `gorm:"foreignKey:PromptID" json:"-"`
	Author User   `gorm:"foreignKey:AuthorID" json:"-"`
}
