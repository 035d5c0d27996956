package repository

import (
	"context"
	"strings"
)

// IDsMatchingTitle returns the ids of textbooks whose title contains
// the keyword as a case-insensitive substring, in insertion (id)
// order. An empty keyword matches everything, mirroring how an empty
// search query behaves.
func (r *TextbookRepo) IDsMatchingTitle(ctx context.Context, keyword string) ([]uint64, error) {
	rows, err := r.DB.QueryContext(ctx,
		"SELECT id FROM textbooks WHERE LOWER(title) LIKE ? ORDER BY id ASC",
		"%"+strings.ToLower(keyword)+"%")
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	ids := make([]uint64, 0)
	for rows.Next() {
		var id uint64
		if err := rows.Scan(&id); err != nil {
			return nil, err
		}
		ids = append(ids, id)
	}
	return ids, rows.Err()
}
