package version

import "testing"

func TestInfo(t *testing.T) {
	t.Parallel()

	bi := Info("enricher-api")
	if bi.Service != "enricher-api" || bi.Version == "" || bi.Commit == "" || bi.Date == "" {
		t.Fatalf("Info = %+v", bi)
	}
}
