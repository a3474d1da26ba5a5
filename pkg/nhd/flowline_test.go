package nhd

import (
	"path/filepath"
	"strings"
	"testing"
)

func TestReadFlowlines(t *testing.T) {
	csv := `COMID,FTYPE,GNIS_NAME
100,StreamRiver,Clear Creek
200,Coastline,
300,coastline,
400,ArtificialPath,
`
	attrs, err := ReadFlowlines(strings.NewReader(csv), "")
	if err != nil {
		t.Fatalf("ReadFlowlines failed: %v", err)
	}

	if len(attrs.Units) != 4 {
		t.Errorf("Expected 4 units, got %d", len(attrs.Units))
	}
	if len(attrs.Terminals) != 2 {
		t.Errorf("Expected 2 terminals (case-insensitive match), got %d", len(attrs.Terminals))
	}
	if !attrs.Terminals.Has(200) || !attrs.Terminals.Has(300) {
		t.Errorf("Expected 200 and 300 as terminals, got %v", attrs.Terminals)
	}
	if attrs.Terminals.Has(100) {
		t.Error("StreamRiver should not be a terminal")
	}
}

func TestReadFlowlines_CustomTerminalClass(t *testing.T) {
	csv := `COMID,FTYPE
100,Connector
200,Coastline
`
	attrs, err := ReadFlowlines(strings.NewReader(csv), "Connector")
	if err != nil {
		t.Fatalf("ReadFlowlines failed: %v", err)
	}
	if !attrs.Terminals.Has(100) || attrs.Terminals.Has(200) {
		t.Errorf("Expected only 100 as terminal, got %v", attrs.Terminals)
	}
}

func TestLayoutPaths(t *testing.T) {
	l := Layout{Root: "/data/nhd"}

	want := filepath.Join("/data/nhd", "NHDPlus06", "NHDPlus06", "NHDPlusAttributes", "PlusFlow.csv")
	if got := l.PlusFlowPath("06"); got != want {
		t.Errorf("PlusFlowPath: expected %s, got %s", want, got)
	}

	want = filepath.Join("/data/nhd", "NHDPlus06", "NHDPlus06", "NHDSnapshot", "Hydrography", "NHDFlowline.csv")
	if got := l.FlowlinePath("06"); got != want {
		t.Errorf("FlowlinePath: expected %s, got %s", want, got)
	}

	want = filepath.Join("/data/nhd", "interVPU.csv")
	if got := l.InterVPUPath(); got != want {
		t.Errorf("InterVPUPath: expected %s, got %s", want, got)
	}
}
