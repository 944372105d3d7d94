package models

import "time"

// Account is one stored credential record: the site it belongs to, the
// login data, an optional note, and an optional attached file. The vault
// entry password is stored as entered; there is no server-side encryption.
type Account struct {
	ID           string
	SerialNumber int64
	Website      string
	Name         string
	Username     string
	Email        string
	Password     string
	WebLogo      string
	Note         string
	UserID       string
	AttachedFile *AttachedFile
	CreatedAt    time.Time
	UpdatedAt    time.Time
}

// AttachedFile describes the metadata of an account's binary attachment.
// The content itself lives in object storage under StorageKey.
type AttachedFile struct {
	Filename    string
	StorageKey  string
	ContentType string
	Size        int64
	UploadedAt  time.Time
}
