package dashboard

import (
	"fmt"
	"strconv"
	"time"
)

var sizeUnits = []string{"Bytes", "KB", "MB", "GB"}

// FormatFileSize renders a byte count with binary (1024) steps and at most two
// decimals, trailing zeros trimmed: 0 -> "0 Bytes", 1536 -> "1.5 KB".
// Values of a terabyte and more stay expressed in GB.
func FormatFileSize(bytes int64) string {
	if bytes <= 0 {
		return fmt.Sprintf("%d Bytes", bytes)
	}

	value := float64(bytes)
	unit := 0
	for value >= 1024 && unit < len(sizeUnits)-1 {
		value /= 1024
		unit++
	}

	// Round to two decimals first, then drop insignificant zeros.
	rounded, _ := strconv.ParseFloat(strconv.FormatFloat(value, 'f', 2, 64), 64)
	return strconv.FormatFloat(rounded, 'f', -1, 64) + " " + sizeUnits[unit]
}

// NextMigrationID returns the id suggested for the next upload: total+1,
// zero-padded to three digits.
func NextMigrationID(total int) string {
	return fmt.Sprintf("%03d", total+1)
}

// CommitMessage builds the default commit message for an upload. It is empty
// unless both id and description are known.
func CommitMessage(migrationID, description string) string {
	if migrationID == "" || description == "" {
		return ""
	}
	return fmt.Sprintf("Add migration %s: %s", migrationID, description)
}

const (
	dateTimeLayout = "2006-01-02 15:04:05"
	dateLayout     = "2006-01-02"
)

func formatDateTime(t time.Time, loc *time.Location) string {
	return t.In(loc).Format(dateTimeLayout)
}

func formatDate(t time.Time, loc *time.Location) string {
	return t.In(loc).Format(dateLayout)
}
