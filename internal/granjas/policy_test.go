package granjas

import (
	"encoding/json"
	"errors"
	"testing"
	"time"

	"granjas-api/internal/auth"
	"granjas-api/internal/rbac"
)

func adminIdent() auth.Identity {
	return auth.Identity{IDUsuario: 1, TipoUsuario: rbac.RoleAdmin}
}

func capturaIdent(asociaciones ...string) auth.Identity {
	return auth.Identity{IDUsuario: 2, TipoUsuario: rbac.RoleCaptura, AsociacionesPermitidas: asociaciones}
}

func strptr(s string) *string { return &s }

func sampleGranja() Granja {
	estatus := EstatusUnidadActiva
	censo := true
	now := time.Date(2024, 5, 20, 12, 0, 0, 0, time.UTC)
	return Granja{
		IDGranja: 10,
		GranjaBase: GranjaBase{
			Asociacion:           strptr("A1"),
			Municipio:            "Mérida",
			NombreGranja:         "Granja Uno",
			PropietarioApPaterno: "Pérez",
			PropietarioNombres:   "Juan",
			TipoProduccion:       TipoProduccionEngorda,
			NumeroCasetas:        4,
			CapacidadInstalada:   1200,
		},
		EstatusAnterior:    &estatus,
		EstatusActual:      &estatus,
		RegistroCenso:      &censo,
		CreadoPor:          1,
		FechaCreacion:      now,
		FechaActualizacion: now,
	}
}

func TestIsRestrictedField(t *testing.T) {
	for _, f := range []string{ColEstatusAnterior, ColEstatusActual, ColRegistroCenso} {
		if !IsRestrictedField(f) {
			t.Fatalf("expected %s restricted", f)
		}
	}
	for _, f := range []string{"asociacion", "municipio", "creado_por", "id_granja", ""} {
		if IsRestrictedField(f) {
			t.Fatalf("did not expect %s restricted", f)
		}
	}
}

func TestFilterForRead_CapturaOmitsRestrictedKeys(t *testing.T) {
	g := sampleGranja()

	out := FilterForRead(g, capturaIdent("A1"))
	raw, err := json.Marshal(out)
	if err != nil {
		t.Fatalf("marshal: %v", err)
	}

	var m map[string]any
	if err := json.Unmarshal(raw, &m); err != nil {
		t.Fatalf("unmarshal: %v", err)
	}
	for _, f := range []string{ColEstatusAnterior, ColEstatusActual, ColRegistroCenso} {
		if _, ok := m[f]; ok {
			t.Fatalf("captura view must not contain key %q", f)
		}
	}
	if m["municipio"] != "Mérida" {
		t.Fatalf("public field missing: %v", m["municipio"])
	}
	if m["id_granja"] != float64(10) {
		t.Fatalf("id missing: %v", m["id_granja"])
	}
}

func TestFilterForRead_AdminSeesEverything(t *testing.T) {
	g := sampleGranja()

	out := FilterForRead(g, adminIdent())
	raw, err := json.Marshal(out)
	if err != nil {
		t.Fatalf("marshal: %v", err)
	}

	var m map[string]any
	if err := json.Unmarshal(raw, &m); err != nil {
		t.Fatalf("unmarshal: %v", err)
	}
	if m[ColEstatusActual] != string(EstatusUnidadActiva) {
		t.Fatalf("expected estatus_actual present, got %v", m[ColEstatusActual])
	}
	if m[ColRegistroCenso] != true {
		t.Fatalf("expected registro_censo present")
	}
}

func TestFilterForRead_AdminNullRestrictedFieldsStayNull(t *testing.T) {
	g := sampleGranja()
	g.EstatusAnterior = nil
	g.EstatusActual = nil
	g.RegistroCenso = nil

	raw, err := json.Marshal(FilterForRead(g, adminIdent()))
	if err != nil {
		t.Fatalf("marshal: %v", err)
	}

	var m map[string]any
	if err := json.Unmarshal(raw, &m); err != nil {
		t.Fatalf("unmarshal: %v", err)
	}
	// Keys must be present with explicit null for the admin view.
	for _, f := range []string{ColEstatusAnterior, ColEstatusActual, ColRegistroCenso} {
		v, ok := m[f]
		if !ok {
			t.Fatalf("expected key %q present", f)
		}
		if v != nil {
			t.Fatalf("expected %q null, got %v", f, v)
		}
	}
}

func TestFilterForRead_DoesNotMutateInput(t *testing.T) {
	g := sampleGranja()
	_ = FilterForRead(g, capturaIdent("A1"))

	if g.EstatusActual == nil || *g.EstatusActual != EstatusUnidadActiva {
		t.Fatalf("input granja mutated")
	}
}

func TestValidateWrite_CapturaRejectedWithFieldName(t *testing.T) {
	censo := true
	req := GranjaCreate{RegistroCenso: &censo}

	err := ValidateWrite(capturaIdent("A1"), req.restrictedValues())
	if err == nil {
		t.Fatalf("expected error")
	}
	var rf *RestrictedFieldError
	if !errors.As(err, &rf) {
		t.Fatalf("expected RestrictedFieldError, got %T", err)
	}
	if rf.Field != ColRegistroCenso {
		t.Fatalf("expected offending field %q, got %q", ColRegistroCenso, rf.Field)
	}
	if !errors.Is(err, ErrForbidden) {
		t.Fatalf("expected ErrForbidden wrap")
	}
}

func TestValidateWrite_NullRestrictedFieldsPass(t *testing.T) {
	req := GranjaCreate{}
	if err := ValidateWrite(capturaIdent("A1"), req.restrictedValues()); err != nil {
		t.Fatalf("unexpected err: %v", err)
	}
}

func TestValidateWrite_AdminMaySetRestricted(t *testing.T) {
	estatus := EstatusUnidadSuspendida
	req := GranjaCreate{EstatusActual: &estatus}
	if err := ValidateWrite(adminIdent(), req.restrictedValues()); err != nil {
		t.Fatalf("unexpected err: %v", err)
	}
}

func TestVisibleAssociations(t *testing.T) {
	if _, unrestricted := VisibleAssociations(adminIdent()); !unrestricted {
		t.Fatalf("admin must be unrestricted")
	}

	assocs, unrestricted := VisibleAssociations(capturaIdent("A1", "A2"))
	if unrestricted || len(assocs) != 2 {
		t.Fatalf("unexpected scope: %v unrestricted=%v", assocs, unrestricted)
	}

	assocs, unrestricted = VisibleAssociations(capturaIdent())
	if unrestricted || len(assocs) != 0 {
		t.Fatalf("captura without grants must be restricted to nothing")
	}
}

func TestCanMutate(t *testing.T) {
	g := sampleGranja() // asociacion A1

	if !CanMutate(adminIdent(), g) {
		t.Fatalf("admin must mutate anything")
	}
	if !CanMutate(capturaIdent("A1"), g) {
		t.Fatalf("captura with grant must mutate")
	}
	if CanMutate(capturaIdent("B9"), g) {
		t.Fatalf("captura without grant must not mutate")
	}

	g.Asociacion = nil
	if CanMutate(capturaIdent("A1"), g) {
		t.Fatalf("nil association must never match a grant")
	}
}
