package migration

import (
	"fmt"

	"gorm.io/gorm"
)

// TableReport is the row count of one table plus rows pointing at missing parents
type TableReport struct {
	Table   string
	Exists  bool
	Rows    int64
	Orphans int64
}

// orphanQueries counts child rows whose parent row is gone
var orphanQueries = map[string]string{
	"posts":         "SELECT COUNT(*) FROM posts p LEFT JOIN users u ON u.id = p.user_id WHERE u.id IS NULL",
	"comments":      "SELECT COUNT(*) FROM comments c LEFT JOIN posts p ON p.id = c.post_id WHERE p.id IS NULL",
	"likes":         "SELECT COUNT(*) FROM likes l LEFT JOIN posts p ON p.id = l.post_id WHERE p.id IS NULL",
	"comment_likes": "SELECT COUNT(*) FROM comment_likes l LEFT JOIN comments c ON c.id = l.comment_id WHERE c.id IS NULL",
}

// Tables lists the table names in parent-first order
func Tables() []string {
	return []string{"users", "posts", "comments", "likes", "comment_likes"}
}

// Verify reports row and orphan counts for every table
func Verify(db *gorm.DB) ([]TableReport, error) {
	reports := make([]TableReport, 0, len(Tables()))
	for _, table := range Tables() {
		report := TableReport{Table: table, Exists: db.Migrator().HasTable(table)}
		if report.Exists {
			if err := db.Table(table).Count(&report.Rows).Error; err != nil {
				return nil, fmt.Errorf("count %s: %w", table, err)
			}
			if q, ok := orphanQueries[table]; ok {
				if err := db.Raw(q).Scan(&report.Orphans).Error; err != nil {
					return nil, fmt.Errorf("orphans %s: %w", table, err)
				}
			}
		}
		reports = append(reports, report)
	}
	return reports, nil
}

// Drop removes every table, children first
func Drop(db *gorm.DB) error {
	tables := Tables()
	for i := len(tables) - 1; i >= 0; i-- {
		if err := db.Migrator().DropTable(tables[i]); err != nil {
			return fmt.Errorf("drop %s: %w", tables[i], err)
		}
	}
	return nil
}
