package audit

// Record is an immutable, append-only entry in logs_cambios.
//
// Invariants:
// - Records are never updated or deleted.
// - Exactly one record per mutating granja operation.
// - A record commits in the same transaction as the mutation it describes;
//   neither may persist without the other.
type Record struct {
	ID int64 `json:"id_log" db:"id_log"`

	// IDUsuario is the authenticated caller that performed the mutation.
	IDUsuario int64 `json:"id_usuario" db:"id_usuario"`

	// IDGranja is the affected row.
	IDGranja int64 `json:"id_granja" db:"id_granja"`

	TablaAfectada string `json:"tabla_afectada" db:"tabla_afectada"`
	Accion        Action `json:"accion" db:"accion"`

	// CampoModificado optionally describes what changed, e.g.
	// "creación de registro" for inserts or "campos admin" for the
	// admin-field update path.
	CampoModificado string `json:"campo_modificado,omitempty" db:"campo_modificado"`
}

type Action string

const (
	ActionInsert Action = "INSERT"
	ActionUpdate Action = "UPDATE"
	ActionDelete Action = "DELETE"
)

// TablaGranjas is the only audited table today.
const TablaGranjas = "granjas"
