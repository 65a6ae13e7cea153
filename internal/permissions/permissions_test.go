package permissions

import (
	"testing"

	"gorm.io/datatypes"
)

func TestAllowedSuperAdminBypassesMatrix(t *testing.T) {
	for _, module := range Modules() {
		for _, action := range Actions() {
			if !Allowed(RoleSuperAdmin, Matrix{}, module, action) {
				t.Fatalf("expected superAdmin allowed for %s/%s", module, action)
			}
		}
	}
}

func TestAllowedChecksMatrixEntry(t *testing.T) {
	matrix := Matrix{
		ModuleNews: {Viewer: true, Creator: true},
	}

	if !Allowed(RoleMember, matrix, ModuleNews, ActionViewer) {
		t.Fatal("expected viewer grant on news")
	}
	if !Allowed(RoleMember, matrix, ModuleNews, ActionCreator) {
		t.Fatal("expected creator grant on news")
	}
	if Allowed(RoleMember, matrix, ModuleNews, ActionRemover) {
		t.Fatal("expected remover denied on news")
	}
	if Allowed(RoleMember, matrix, ModuleEvents, ActionViewer) {
		t.Fatal("expected module absent from matrix to deny")
	}
}

func TestAllowedRejectsUnknownRoleAndEmptyInputs(t *testing.T) {
	matrix := Matrix{ModuleNews: {Viewer: true}}

	if Allowed("ghost", matrix, ModuleNews, ActionViewer) {
		t.Fatal("expected unknown role denied")
	}
	if Allowed(RoleAdmin, matrix, "", ActionViewer) {
		t.Fatal("expected empty module denied")
	}
	if Allowed(RoleAdmin, matrix, ModuleNews, "") {
		t.Fatal("expected empty action denied")
	}
}

func TestParseMatrixMalformedYieldsDenyAll(t *testing.T) {
	for _, raw := range []datatypes.JSON{
		nil,
		datatypes.JSON(""),
		datatypes.JSON("not json"),
		datatypes.JSON("null"),
	} {
		matrix := ParseMatrix(raw)
		if matrix == nil {
			t.Fatalf("expected non-nil matrix for %q", string(raw))
		}
		if Allowed(RoleAdmin, matrix, ModuleNews, ActionViewer) {
			t.Fatalf("expected deny-all matrix for %q", string(raw))
		}
	}
}

func TestMatrixRoundTrip(t *testing.T) {
	in := Matrix{
		ModuleDonations: {Viewer: true, Editor: true},
	}
	raw, errMarshal := MarshalMatrix(in)
	if errMarshal != nil {
		t.Fatalf("marshal matrix: %v", errMarshal)
	}
	out := ParseMatrix(raw)
	if !out[ModuleDonations].Viewer || !out[ModuleDonations].Editor {
		t.Fatalf("expected donation grants to survive round trip, got %+v", out)
	}
	if out[ModuleDonations].Remover {
		t.Fatal("expected remover to stay denied")
	}
}

func TestValidateMatrixRejectsUnknownModule(t *testing.T) {
	if err := ValidateMatrix(Matrix{ModuleNews: {Viewer: true}}); err != nil {
		t.Fatalf("expected known module accepted: %v", err)
	}
	if err := ValidateMatrix(Matrix{"billing": {Viewer: true}}); err == nil {
		t.Fatal("expected unknown module rejected")
	}
}
