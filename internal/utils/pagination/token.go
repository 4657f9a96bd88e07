package pagination

import (
	"encoding/base64"
	"fmt"
	"strconv"
	"strings"
)

// EncodeSequenceToken creates an opaque cursor pointing after the given journal
// sequence number. The scope binds the cursor to the filter it was issued for.
func EncodeSequenceToken(sequence int64, scope string) string {
	tokenStr := fmt.Sprintf("%d|%s", sequence, scope)
	return base64.URLEncoding.EncodeToString([]byte(tokenStr))
}

// DecodeSequenceToken parses a cursor created by EncodeSequenceToken and
// checks that it was issued for the same scope.
func DecodeSequenceToken(token string, scope string) (int64, error) {
	decodedBytes, err := base64.URLEncoding.DecodeString(token)
	if err != nil {
		return 0, fmt.Errorf("invalid pagination token format (base64 decode): %w", err)
	}
	parts := strings.SplitN(string(decodedBytes), "|", 2)
	if len(parts) != 2 {
		return 0, fmt.Errorf("invalid pagination token format (split)")
	}
	sequence, err := strconv.ParseInt(parts[0], 10, 64)
	if err != nil || sequence < 0 {
		return 0, fmt.Errorf("invalid pagination token format (sequence parse)")
	}
	if parts[1] != scope {
		return 0, fmt.Errorf("pagination token was issued for a different filter")
	}
	return sequence, nil
}
