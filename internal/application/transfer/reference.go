package transfer

import (
	"fmt"
	"strings"
	"time"

	"github.com/google/uuid"
)

// NewTransferReference genera el identificador legible único por traslado,
// usado para correlacionar las dos filas de auditoría de un mismo traslado.
// Formato: TRF-20250131154500-a1b2c3d4.
func NewTransferReference(now time.Time) string {
	suffix := strings.ReplaceAll(uuid.New().String(), "-", "")[:8]
	return fmt.Sprintf("TRF-%s-%s", now.Format("20060102150405"), suffix)
}
