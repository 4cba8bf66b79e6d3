package granjas

import (
	"encoding/json"
	"testing"
)

func TestGranjaUpdate_AbsentVsNullVsValue(t *testing.T) {
	payload := []byte(`{"municipio":"Umán","asociacion":null}`)

	var upd GranjaUpdate
	if err := json.Unmarshal(payload, &upd); err != nil {
		t.Fatalf("unmarshal: %v", err)
	}

	if !upd.IsSet("municipio") {
		t.Fatalf("municipio key was present")
	}
	if !upd.IsSet("asociacion") {
		t.Fatalf("explicit null still counts as present")
	}
	if upd.IsSet("nombre_granja") {
		t.Fatalf("absent key must not count as present")
	}

	cols, vals := upd.Changes()
	if len(cols) != 2 || len(vals) != 2 {
		t.Fatalf("expected 2 changes, got %v", cols)
	}
	// Canonical column order, not payload order.
	if cols[0] != "asociacion" || cols[1] != "municipio" {
		t.Fatalf("unexpected order: %v", cols)
	}
	if vals[0] != nil {
		t.Fatalf("explicit null must map to nil, got %v", vals[0])
	}
	if vals[1] != "Umán" {
		t.Fatalf("unexpected value: %v", vals[1])
	}
}

func TestGranjaUpdate_UnknownAndSystemKeysIgnored(t *testing.T) {
	payload := []byte(`{"id_granja":99,"creado_por":7,"estatus_actual":"Activa","no_such_column":1}`)

	var upd GranjaUpdate
	if err := json.Unmarshal(payload, &upd); err != nil {
		t.Fatalf("unmarshal: %v", err)
	}

	cols, _ := upd.Changes()
	if len(cols) != 0 {
		t.Fatalf("system, restricted and unknown keys must be ignored, got %v", cols)
	}
}

func TestGranjaUpdate_EmptyPayload(t *testing.T) {
	var upd GranjaUpdate
	if err := json.Unmarshal([]byte(`{}`), &upd); err != nil {
		t.Fatalf("unmarshal: %v", err)
	}
	if cols, _ := upd.Changes(); len(cols) != 0 {
		t.Fatalf("expected no changes, got %v", cols)
	}
}

func TestGranjaAdminUpdate_TracksOnlyRestrictedColumns(t *testing.T) {
	payload := []byte(`{"estatus_actual":"Suspendida","registro_censo":null,"municipio":"Umán"}`)

	var upd GranjaAdminUpdate
	if err := json.Unmarshal(payload, &upd); err != nil {
		t.Fatalf("unmarshal: %v", err)
	}

	cols, vals := upd.Changes()
	if len(cols) != 2 {
		t.Fatalf("expected 2 changes, got %v", cols)
	}
	if cols[0] != ColEstatusActual || cols[1] != ColRegistroCenso {
		t.Fatalf("unexpected order: %v", cols)
	}
	if vals[0] != EstatusUnidadSuspendida {
		t.Fatalf("unexpected value: %v", vals[0])
	}
	if vals[1] != nil {
		t.Fatalf("explicit null must map to nil")
	}
}
