package authz

import (
	"errors"
	"testing"

	"github.com/Gunvolt24/orders-api/internal/apperr"
	"github.com/Gunvolt24/orders-api/internal/domain"
)

var (
	admin    = domain.Actor{ID: "a1", Role: domain.RoleAdmin}
	customer = domain.Actor{ID: "c1", Role: domain.RoleCustomer}
	ghost    = domain.Actor{} // нераспознанный актор
	noRole   = domain.Actor{ID: "x1"}
)

func TestDecide_Matrix(t *testing.T) {
	t.Parallel()

	tests := []struct {
		name    string
		actor   domain.Actor
		op      Operation
		ownerID string
		want    error // nil = allow; иначе сверяем вид через errors.Is
	}{
		// create: любой распознанный актор, владелец игнорируется
		{"create admin", admin, OpCreate, "", nil},
		{"create customer", customer, OpCreate, "", nil},
		{"create unresolved", ghost, OpCreate, "", apperr.ErrUnauthenticated},

		// read: admin — всё, customer — только своё
		{"read admin any", admin, OpRead, "c1", nil},
		{"read customer own", customer, OpRead, "c1", nil},
		{"read customer foreign", customer, OpRead, "c2", apperr.ErrForbidden},
		{"read unresolved", ghost, OpRead, "c1", apperr.ErrUnauthenticated},
		{"read unknown role", noRole, OpRead, "x1", apperr.ErrForbidden},

		// delete: симметрично read; admin может удалять чужое
		{"delete admin any", admin, OpDelete, "c1", nil},
		{"delete customer own", customer, OpDelete, "c1", nil},
		{"delete customer foreign", customer, OpDelete, "c2", apperr.ErrForbidden},
		{"delete unknown role", noRole, OpDelete, "x1", apperr.ErrForbidden},

		// незнакомая операция — запрет даже админу
		{"unknown op admin", admin, Operation(99), "c1", apperr.ErrForbidden},
	}

	for _, tt := range tests {
		tt := tt
		t.Run(tt.name, func(t *testing.T) {
			t.Parallel()

			err := Decide(tt.actor, tt.op, tt.ownerID)
			if tt.want == nil {
				if err != nil {
					t.Fatalf("want allow, got %v", err)
				}
				return
			}
			if !errors.Is(err, tt.want) {
				t.Fatalf("want %v, got %v", tt.want, err)
			}
		})
	}
}

func TestDecideList_Matrix(t *testing.T) {
	t.Parallel()

	tests := []struct {
		name  string
		actor domain.Actor
		q     domain.OrderQuery
		want  error
	}{
		{"admin no filters", admin, domain.OrderQuery{}, nil},
		{"admin foreign customer", admin, domain.OrderQuery{Customer: "c2"}, nil},
		{"admin status only", admin, domain.OrderQuery{Status: "ACTIVE"}, nil},

		// customer обязан фильтровать по себе; иначе жёсткий отказ,
		// а не молчаливое сужение
		{"customer self", customer, domain.OrderQuery{Customer: "c1"}, nil},
		{"customer self with status", customer, domain.OrderQuery{Customer: "c1", Status: "COMPLETE"}, nil},
		{"customer no filter", customer, domain.OrderQuery{}, apperr.ErrForbidden},
		{"customer foreign", customer, domain.OrderQuery{Customer: "c2"}, apperr.ErrForbidden},
		{"customer status only", customer, domain.OrderQuery{Status: "ACTIVE"}, apperr.ErrForbidden},

		{"unresolved", ghost, domain.OrderQuery{}, apperr.ErrUnauthenticated},
		{"unknown role", noRole, domain.OrderQuery{Customer: "x1"}, apperr.ErrForbidden},
	}

	for _, tt := range tests {
		tt := tt
		t.Run(tt.name, func(t *testing.T) {
			t.Parallel()

			err := DecideList(tt.actor, tt.q)
			if tt.want == nil {
				if err != nil {
					t.Fatalf("want allow, got %v", err)
				}
				return
			}
			if !errors.Is(err, tt.want) {
				t.Fatalf("want %v, got %v", tt.want, err)
			}
		})
	}
}

func TestOperation_String(t *testing.T) {
	for op, want := range map[Operation]string{
		OpCreate:       "create",
		OpList:         "list",
		OpRead:         "read",
		OpDelete:       "delete",
		Operation(200): "unknown",
	} {
		if got := op.String(); got != want {
			t.Fatalf("Operation(%d).String() = %q, want %q", op, got, want)
		}
	}
}
