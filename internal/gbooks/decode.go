package gbooks

import (
	"encoding/json"
	"strings"
)

// Decode parses a volumes search response into books, in response order.
//
// An empty body yields ErrNoData. A body that is not JSON, or that has no
// items array, yields a *DecodeError. A response reporting zero total items
// without an items array is an empty success, since that is how the API
// answers a query with no matches. Individual items without a volumeInfo
// title are skipped and counted in Decoded.Skipped.
func Decode(raw string) (Decoded, error) {
	if strings.TrimSpace(raw) == "" {
		return Decoded{}, ErrNoData
	}

	var payload volumesResponse
	if err := json.Unmarshal([]byte(raw), &payload); err != nil {
		return Decoded{}, &DecodeError{Reason: "malformed json", Err: err}
	}

	if payload.Items == nil {
		if payload.TotalItems != nil && *payload.TotalItems == 0 {
			return Decoded{Books: []Book{}}, nil
		}
		return Decoded{}, &DecodeError{Reason: "missing items", Err: ErrMissingItems}
	}

	out := Decoded{Books: make([]Book, 0, len(payload.Items))}
	for _, item := range payload.Items {
		book, ok := decodeItem(item)
		if !ok {
			out.Skipped++
			continue
		}
		out.Books = append(out.Books, book)
	}
	return out, nil
}

func decodeItem(raw json.RawMessage) (Book, bool) {
	var v volume
	if err := json.Unmarshal(raw, &v); err != nil {
		return Book{}, false
	}
	if v.VolumeInfo == nil || v.VolumeInfo.Title == nil {
		return Book{}, false
	}

	author := UnknownAuthor
	if len(v.VolumeInfo.Authors) > 0 {
		author = v.VolumeInfo.Authors[0]
	}
	return NewBook(author, *v.VolumeInfo.Title), true
}
