// Package rulecatalog loads versioned rule sets from PostgreSQL, the
// engine's "rule catalog" collaborator (spec.md names it but scopes it out
// of the core). Rule sets are never compiled or cached across invocations,
// matching spec.md's Non-goals: each lookup is a fresh query.
package rulecatalog

import (
	"context"
	"database/sql"
	"fmt"
	"time"

	"github.com/doug-martin/goqu/v9"
	_ "github.com/doug-martin/goqu/v9/dialect/postgres"
	_ "github.com/lib/pq"

	"github.com/openlend/reportengine/internal/common"
	"github.com/openlend/reportengine/internal/config"
	"github.com/openlend/reportengine/internal/projection"
)

// Catalog loads rule sets from the `rule_set` table.
type Catalog struct {
	db      *sql.DB
	dialect goqu.DialectWrapper
}

// Open establishes a PostgreSQL connection pool per the loaded config and
// returns a ready-to-use Catalog, adapting the donor's InitializeDatabase
// connection-pool pattern to this package's own settings.
func Open(cfg *config.PostgresConfig) (*Catalog, error) {
	dsn := fmt.Sprintf("postgres://%s:%s@%s:%d/%s?sslmode=disable",
		cfg.User, cfg.Password, cfg.Host, cfg.Port, cfg.DBName)

	db, err := sql.Open("postgres", dsn)
	if err != nil {
		return nil, fmt.Errorf("rulecatalog: open: %w", err)
	}
	db.SetMaxOpenConns(cfg.MaxOpenConnections)
	db.SetMaxIdleConns(cfg.MaxIdleConnections)
	db.SetConnMaxLifetime(time.Duration(cfg.ConnMaxLifetimeMinutes) * time.Minute)

	if err := db.Ping(); err != nil {
		return nil, fmt.Errorf("rulecatalog: ping: %w", err)
	}

	return &Catalog{db: db, dialect: goqu.Dialect("postgres")}, nil
}

// Close releases the underlying connection pool.
func (c *Catalog) Close() error {
	return c.db.Close()
}

// ruleSetRow mirrors one row of the `rule_set` table.
type ruleSetRow struct {
	ReportID  string `db:"report_id"`
	Version   int    `db:"version"`
	Rules     []byte `db:"rules"`
	CreatedAt string `db:"created_at"`
}

// Load fetches the rule set for reportID at version. version == 0 means
// "latest": the highest version recorded for that report.
func (c *Catalog) Load(ctx context.Context, reportID string, version int) ([]projection.Rule, error) {
	query := c.dialect.From("rule_set").
		Select("report_id", "version", "rules", "created_at").
		Where(goqu.C("report_id").Eq(reportID))

	if version > 0 {
		query = query.Where(goqu.C("version").Eq(version))
	} else {
		query = query.Order(goqu.C("version").Desc())
	}
	query = query.Limit(1)

	sqlString, args, err := query.ToSQL()
	if err != nil {
		return nil, fmt.Errorf("rulecatalog: build query: %w", err)
	}

	row := c.db.QueryRowContext(ctx, sqlString, args...)

	var r ruleSetRow
	if err := row.Scan(&r.ReportID, &r.Version, &r.Rules, &r.CreatedAt); err != nil {
		if err == sql.ErrNoRows {
			return nil, common.NewErrNotFound("rule set for report " + reportID)
		}
		return nil, fmt.Errorf("rulecatalog: scan: %w", err)
	}

	if !common.IsJSONArrayNotEmpty(r.Rules) {
		return nil, nil
	}

	rules, err := projection.ParseRules(r.Rules)
	if err != nil {
		return nil, common.NewErrBadRequest("rulecatalog: malformed rules for " + reportID + ": " + err.Error())
	}
	return rules, nil
}

// Put inserts a new rule-set version for reportID, used by administrative
// tooling and integration tests to seed the catalog.
func (c *Catalog) Put(ctx context.Context, reportID string, version int, rules []projection.Rule) error {
	encoded, err := marshalRules(rules)
	if err != nil {
		return err
	}

	insert := c.dialect.Insert("rule_set").Rows(goqu.Record{
		"report_id":  reportID,
		"version":    version,
		"rules":      encoded,
		"created_at": time.Now().UTC(),
	})

	sqlString, args, err := insert.ToSQL()
	if err != nil {
		return fmt.Errorf("rulecatalog: build insert: %w", err)
	}

	if _, err := c.db.ExecContext(ctx, sqlString, args...); err != nil {
		return fmt.Errorf("rulecatalog: insert: %w", err)
	}
	return nil
}
