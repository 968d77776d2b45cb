package db

import (
	"context"
	"regexp"
	"strings"
	"testing"
	"time"

	"github.com/DATA-DOG/go-sqlmock"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"gorm.io/driver/mysql"
	"gorm.io/gorm"
	gormlogger "gorm.io/gorm/logger"
)

// ddlLog keeps every statement GORM traces.
type ddlLog struct {
	stmts []string
}

func (l *ddlLog) LogMode(gormlogger.LogLevel) gormlogger.Interface { return l }
func (l *ddlLog) Info(context.Context, string, ...interface{})      {}
func (l *ddlLog) Warn(context.Context, string, ...interface{})      {}
func (l *ddlLog) Error(context.Context, string, ...interface{})     {}

func (l *ddlLog) Trace(_ context.Context, _ time.Time, fc func() (string, int64), _ error) {
	sql, _ := fc()
	l.stmts = append(l.stmts, sql)
}

func (l *ddlLog) createTable(t *testing.T, table string) string {
	t.Helper()
	prefix := "CREATE TABLE `" + table + "`"
	for _, s := range l.stmts {
		if strings.HasPrefix(s, prefix) {
			return s
		}
	}
	t.Fatalf("no CREATE TABLE for %s in %d statements", table, len(l.stmts))
	return ""
}

func migrateDryRun(t *testing.T) *ddlLog {
	t.Helper()
	sqlDB, _, err := sqlmock.New()
	require.NoError(t, err)
	t.Cleanup(func() { _ = sqlDB.Close() })

	log := &ddlLog{}
	gdb, err := gorm.Open(mysql.New(mysql.Config{
		Conn:                      sqlDB,
		SkipInitializeWithVersion: true,
	}), &gorm.Config{DryRun: true, Logger: log})
	require.NoError(t, err)

	require.NoError(t, AutoMigrate(gdb))
	return log
}

func cascadeFK(column, table string) *regexp.Regexp {
	return regexp.MustCompile("FOREIGN KEY \\(`" + column + "`\\) REFERENCES `" + table + "`\\s?\\(`" + column + "`\\) ON DELETE CASCADE")
}

func uniqueIndex(column string) *regexp.Regexp {
	return regexp.MustCompile("UNIQUE INDEX `\\w+` \\(`" + column + "`\\)")
}

func TestAutoMigrate_JoinTables(t *testing.T) {
	log := migrateDryRun(t)

	userRoles := log.createTable(t, "user_roles")
	assert.Contains(t, userRoles, "PRIMARY KEY (`user_id`,`role_id`)")
	assert.Regexp(t, cascadeFK("user_id", "users"), userRoles)
	assert.Regexp(t, cascadeFK("role_id", "roles"), userRoles)

	memberships := log.createTable(t, "organization_users")
	assert.Contains(t, memberships, "PRIMARY KEY (`user_id`,`organization_id`)")
	assert.Regexp(t, cascadeFK("user_id", "users"), memberships)
	assert.Regexp(t, cascadeFK("organization_id", "organizations"), memberships)
}

func TestAutoMigrate_ParentTables(t *testing.T) {
	log := migrateDryRun(t)

	users := log.createTable(t, "users")
	assert.Regexp(t, uniqueIndex("username"), users)
	assert.Regexp(t, uniqueIndex("email"), users)

	orgs := log.createTable(t, "organizations")
	assert.Regexp(t, uniqueIndex("organization_name"), orgs)
	assert.Regexp(t, uniqueIndex("contact_email"), orgs)

	roles := log.createTable(t, "roles")
	assert.Regexp(t, uniqueIndex("role_name"), roles)

	for table, ddl := range map[string]string{"users": users, "organizations": orgs, "roles": roles} {
		assert.NotContains(t, ddl, "FOREIGN KEY", "%s must not reference a join table", table)
	}
}
