package checksum

import "testing"

func TestAcceptRejectsDuplicateContent(t *testing.T) {
	r := NewRegistry()

	sum, fresh := r.Accept([]byte("kpi_id,month,day,value\nK1,3,,120"))
	if !fresh {
		t.Fatal("first accept should be fresh")
	}
	if sum == "" {
		t.Fatal("expected a checksum")
	}

	if _, fresh := r.Accept([]byte("kpi_id,month,day,value\nK1,3,,120")); fresh {
		t.Fatal("identical content should be rejected")
	}
	if _, fresh := r.Accept([]byte("kpi_id,month,day,value\nK1,3,,121")); !fresh {
		t.Fatal("different content should be accepted")
	}
}

func TestForgetAllowsReupload(t *testing.T) {
	r := NewRegistry()
	data := []byte("same file")

	sum, _ := r.Accept(data)
	r.Forget(sum)

	if _, fresh := r.Accept(data); !fresh {
		t.Fatal("forgotten content should be accepted again")
	}
}

func TestSumIsStable(t *testing.T) {
	if Sum([]byte("abc")) != Sum([]byte("abc")) {
		t.Fatal("same input must hash the same")
	}
	if Sum([]byte("abc")) == Sum([]byte("abd")) {
		t.Fatal("different input must hash differently")
	}
}
