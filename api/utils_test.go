package api

import (
	"testing"
	"time"
)

func TestGetAuditInfo(t *testing.T) {
	who := "alice"
	when := time.Date(2025, 3, 6, 9, 30, 0, 0, time.UTC)

	created := GetAuditInfo("CREATE", &who, &when)
	if created.CreatedBy != "alice" || created.CreatedAt != "2025-03-06 09:30:00" {
		t.Fatalf("create audit = %+v", created)
	}
	if created.EditedBy != "" || created.DeletedBy != "" {
		t.Fatalf("create audit leaked into other actions: %+v", created)
	}

	edited := GetAuditInfo("EDIT", &who, &when)
	if edited.EditedBy != "alice" || edited.EditedAt != "2025-03-06 09:30:00" {
		t.Fatalf("edit audit = %+v", edited)
	}

	deleted := GetAuditInfo("DELETE", &who, &when)
	if deleted.DeletedBy != "alice" || deleted.DeletedAt != "2025-03-06 09:30:00" {
		t.Fatalf("delete audit = %+v", deleted)
	}

	// rows created before the audit columns existed carry nulls
	blank := GetAuditInfo("EDIT", nil, nil)
	if blank.EditedBy != "" || blank.EditedAt != "" {
		t.Fatalf("nil audit fields must come back empty: %+v", blank)
	}
}

func TestIsBulkSuccess(t *testing.T) {
	ok := []map[string]interface{}{
		{"success": true}, {"success": true},
	}
	if !IsBulkSuccess(ok) {
		t.Fatal("all-success results reported as failure")
	}

	mixed := []map[string]interface{}{
		{"success": true}, {"success": false, "error": "boom"},
	}
	if IsBulkSuccess(mixed) {
		t.Fatal("partial failure reported as success")
	}

	missing := []map[string]interface{}{{"kpi_id": "K1"}}
	if IsBulkSuccess(missing) {
		t.Fatal("result without a success flag reported as success")
	}
}
