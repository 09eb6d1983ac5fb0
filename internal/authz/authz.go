// Пакет authz — движок авторизации заказов: чистая таблица решений
// над (роль, операция, владение), без I/O и побочных эффектов.
package authz

import (
	"fmt"

	"github.com/Gunvolt24/orders-api/internal/apperr"
	"github.com/Gunvolt24/orders-api/internal/domain"
)

// Operation — операция над заказами.
type Operation uint8

const (
	OpCreate Operation = iota + 1
	OpList
	OpRead
	OpDelete
)

func (op Operation) String() string {
	switch op {
	case OpCreate:
		return "create"
	case OpList:
		return "list"
	case OpRead:
		return "read"
	case OpDelete:
		return "delete"
	default:
		return "unknown"
	}
}

// Decide — решение для операции над конкретным заказом (ownerID — владелец цели).
// Для OpCreate ownerID игнорируется: создавать для себя может любой
// аутентифицированный актор. nil — Allow, иначе типизированный Deny.
//
// Порядок проверок фиксирован: сперва распознанность актора, затем роль.
// Распознанность проверяется и здесь (а не только в Identity Context):
// движок не доверяет верхним слоям.
func Decide(actor domain.Actor, op Operation, ownerID string) error {
	if actor.ID == "" {
		return apperr.Unauthenticated("actor is not resolved")
	}

	switch op {
	case OpCreate:
		return nil
	case OpRead, OpDelete:
		switch actor.Role {
		case domain.RoleAdmin:
			return nil
		case domain.RoleCustomer:
			if ownerID == actor.ID {
				return nil
			}
			return apperr.Forbidden(fmt.Sprintf("%s denied: order belongs to another customer", op))
		default:
			return apperr.Forbidden(fmt.Sprintf("%s denied: unknown role", op))
		}
	default:
		return apperr.Forbidden(fmt.Sprintf("operation %s is not permitted", op))
	}
}

// DecideList — решение для запроса коллекции.
// ADMIN: любые комбинации фильтров. CUSTOMER: только свои заказы —
// отсутствие фильтра customer или чужое значение это жёсткий Forbidden,
// а не молчаливое сужение до «своих».
func DecideList(actor domain.Actor, q domain.OrderQuery) error {
	if actor.ID == "" {
		return apperr.Unauthenticated("actor is not resolved")
	}

	switch actor.Role {
	case domain.RoleAdmin:
		return nil
	case domain.RoleCustomer:
		if q.Customer == "" {
			return apperr.Forbidden("list denied: customer filter is required")
		}
		if q.Customer != actor.ID {
			return apperr.Forbidden("list denied: customer filter must match the caller")
		}
		return nil
	default:
		return apperr.Forbidden("list denied: unknown role")
	}
}
