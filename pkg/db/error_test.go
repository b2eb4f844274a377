package db

import (
	"errors"
	"fmt"
	"testing"
	"time"

	"gorm.io/driver/sqlite"
	"gorm.io/gorm"
)

func openTestDB(t *testing.T) *gorm.DB {
	t.Helper()

	dsn := fmt.Sprintf("file:memdb_%d?mode=memory&cache=shared", time.Now().UnixNano())
	conn, err := gorm.Open(sqlite.Open(dsn), &gorm.Config{})
	if err != nil {
		t.Fatalf("open db: %v", err)
	}
	if err := conn.Exec(`CREATE TABLE accounts (id BIGINT PRIMARY KEY, handle TEXT NOT NULL UNIQUE)`).Error; err != nil {
		t.Fatalf("apply schema: %v", err)
	}
	return conn
}

func TestIsNotFoundErr(t *testing.T) {
	conn := openTestDB(t)

	var row struct{ ID int64 }
	err := conn.Table("accounts").Where("id = ?", 42).First(&row).Error
	if err == nil {
		t.Fatalf("expected lookup to fail")
	}
	if !IsNotFoundErr(err) {
		t.Fatalf("expected not-found classification for %v", err)
	}
	if IsNotFoundErr(errors.New("connection reset")) {
		t.Fatalf("unrelated errors must not classify as not-found")
	}
}

func TestIsDuplicateKeyErr(t *testing.T) {
	conn := openTestDB(t)

	if err := conn.Exec(`INSERT INTO accounts (id, handle) VALUES (1, 'rafi')`).Error; err != nil {
		t.Fatalf("seed row: %v", err)
	}
	err := conn.Exec(`INSERT INTO accounts (id, handle) VALUES (2, 'rafi')`).Error
	if err == nil {
		t.Fatalf("expected unique violation")
	}
	if !IsDuplicateKeyErr(err) {
		t.Fatalf("expected duplicate-key classification for %v", err)
	}
	if IsDuplicateKeyErr(errors.New("connection reset")) {
		t.Fatalf("unrelated errors must not classify as duplicate-key")
	}
}
