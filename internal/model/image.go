package model

import (
	"database/sql/driver"
	"encoding/json"
	"fmt"
)

// Custom implementation of the image subdocument serializer

type Image struct {
	// Data URI in the form data:<mimetype>;base64,<data>
	URL      string `json:"url"`
	Filename string `json:"filename"`
	Mimetype string `json:"mimetype"`
	Size     int64  `json:"size"`
}

type ImageList []Image

// Value implements the driver.Valuer interface.
// This defines how the slice is stored in the database.
func (l ImageList) Value() (driver.Value, error) {
	if len(l) == 0 {
		return "[]", nil
	}

	b, err := json.Marshal(l)
	if err != nil {
		return "", fmt.Errorf("failed to serialize ImageList, %w", err)
	}

	return string(b), nil
}

// Scan implements the sql.Scanner interface.
// This defines how the database value is converted back into go.
func (l *ImageList) Scan(value interface{}) error {
	if value == nil {
		*l = ImageList{}
		return nil
	}

	var b []byte

	switch v := value.(type) {
	case string:
		b = []byte(v)
	case []byte:
		b = v
	default:
		return fmt.Errorf("failed to scan ImageList, %v", value)
	}

	if len(b) == 0 {
		*l = ImageList{}
		return nil
	}

	return json.Unmarshal(b, l)
}
