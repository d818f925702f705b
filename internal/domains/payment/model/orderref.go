package model

import (
	"fmt"

	"github.com/google/uuid"
)

// NewOrderRef generates a gateway order reference like "MRT-1A2B3C4D5E6F".
// The prefix identifies the product line in bank statements.
func NewOrderRef(prefix string) string {
	id := uuid.New()
	return fmt.Sprintf("%s-%X", prefix, id[:6])
}
