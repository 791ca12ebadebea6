package report

import "testing"

func TestParseCsvUpload(t *testing.T) {
	data := []byte("kpi_id,month,day,value\n" +
		"K1A2B3C4,3,,120.5\n" +
		"K1A2B3C4,3,6,15\n" +
		",,,\n" +
		"K9F8E7D6,4,,\"1 200,75\"\n")

	rows, err := parseCsvUpload(data)
	if err != nil {
		t.Fatalf("parse: %v", err)
	}
	if len(rows) != 3 {
		t.Fatalf("got %d rows, want 3", len(rows))
	}

	if rows[0].KpiID != "K1A2B3C4" || rows[0].Month != 3 || rows[0].Day != 0 || rows[0].Value != "120.5" {
		t.Fatalf("monthly row parsed wrong: %+v", rows[0])
	}
	if rows[1].Day != 6 {
		t.Fatalf("daily row parsed wrong: %+v", rows[1])
	}
	if rows[2].Value != "1 200,75" {
		t.Fatalf("raw value must survive untouched until coercion: %+v", rows[2])
	}
}

func TestUploadRowsSkipHeaderAndBlankLines(t *testing.T) {
	records := [][]string{
		{"kpi_id", "month", "day", "value"},
		{"", "", "", ""},
		{"K1", "2", "", "10"},
		{"short"},
	}
	rows := uploadRowsFromCells(records)
	if len(rows) != 1 {
		t.Fatalf("got %d rows, want 1", len(rows))
	}
	if rows[0].KpiID != "K1" || rows[0].Month != 2 {
		t.Fatalf("unexpected row: %+v", rows[0])
	}
}

func TestUploadChunks(t *testing.T) {
	rows := []uploadRow{
		{KpiID: "K1", Month: 1}, {KpiID: "K2", Month: 2}, {KpiID: "K3", Month: 3},
		{KpiID: "K4", Month: 4}, {KpiID: "K5", Month: 5},
	}

	chunks := uploadChunks(rows, 2)
	if len(chunks) != 3 {
		t.Fatalf("got %d chunks, want 3", len(chunks))
	}
	if len(chunks[0]) != 2 || len(chunks[1]) != 2 || len(chunks[2]) != 1 {
		t.Fatalf("chunk sizes = %d/%d/%d, want 2/2/1", len(chunks[0]), len(chunks[1]), len(chunks[2]))
	}

	// order survives the split
	var flat []uploadRow
	for _, c := range chunks {
		flat = append(flat, c...)
	}
	for i := range rows {
		if flat[i].KpiID != rows[i].KpiID {
			t.Fatalf("row %d reordered: got %s, want %s", i, flat[i].KpiID, rows[i].KpiID)
		}
	}

	if got := uploadChunks(rows, 500); len(got) != 1 || len(got[0]) != len(rows) {
		t.Fatalf("oversized batch limit must yield one chunk, got %d", len(got))
	}
	if got := uploadChunks(nil, 2); got != nil {
		t.Fatalf("no rows must yield no chunks, got %v", got)
	}
}

func TestValidPeriod(t *testing.T) {
	cases := []struct {
		year, month, day int
		ok               bool
	}{
		{2025, 1, 0, true},
		{2025, 12, 31, true},
		{2025, 0, 0, false},
		{2025, 13, 0, false},
		{2025, 6, 32, false},
		{1999, 6, 0, false},
		{2101, 6, 0, false},
	}
	for _, c := range cases {
		if got := validPeriod(c.year, c.month, c.day); got != c.ok {
			t.Errorf("validPeriod(%d,%d,%d) = %v, want %v", c.year, c.month, c.day, got, c.ok)
		}
	}
}
