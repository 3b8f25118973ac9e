package app

import (
	"errors"
	"reflect"

	"github.com/go-playground/validator/v10"
	"github.com/shopspring/decimal"
)

var validate = newValidator()

func newValidator() *validator.Validate {
	v := validator.New()
	// Compare decimals numerically so gte/gt tags work on prices and stock.
	v.RegisterCustomTypeFunc(func(field reflect.Value) interface{} {
		if d, ok := field.Interface().(decimal.Decimal); ok {
			f, _ := d.Float64()
			return f
		}
		return nil
	}, decimal.Decimal{})
	return v
}

// fieldMessages maps "<Field>.<tag>" to the message shown to the caller.
var fieldMessages = map[string]string{
	"Username.required": "Usuario y contraseña son requeridos",
	"Password.required": "Usuario y contraseña son requeridos",
	"Username.min":      "El usuario debe tener al menos 3 caracteres",
	"Password.min":      "La contraseña debe tener al menos 4 caracteres",
	"Name.required":     "El nombre es requerido",
	"Category.oneof":    "Categoría inválida",
	"Price.gte":         "Precio inválido",
	"Client.required":   "El nombre del cliente es requerido",
	"Products.min":      "Selecciona al menos un producto",
	"Products.max":      "Demasiados productos en el pedido",
	"Status.oneof":      "Estatus inválido",
	"Unit.required":     "La unidad es requerida",
	"Quantity.gte":      "Cantidad inválida",
	"MaxCapacity.gt":    "Capacidad máxima inválida",
}

// check runs the struct tags of v and turns the first failure into a
// ValidationError. Fields are checked in declaration order.
func check(v any) error {
	err := validate.Struct(v)
	if err == nil {
		return nil
	}
	var ves validator.ValidationErrors
	if errors.As(err, &ves) && len(ves) > 0 {
		fe := ves[0]
		if msg, ok := fieldMessages[fe.Field()+"."+fe.Tag()]; ok {
			return ValidationError(msg)
		}
		return ValidationError("Campo inválido: " + fe.Field())
	}
	return ValidationError(err.Error())
}
