package conversion

import (
	"context"

	"github.com/jhoicas/almacen-core/internal/domain/repository"
)

// TxRunner ejecuta una función dentro de una transacción de BD, pasando un
// repositorio de conversiones atado a esa tx. Garantiza que la arista directa
// y su inversa se escriban juntas o no se escriba ninguna.
type TxRunner interface {
	RunConversion(ctx context.Context, fn func(repo repository.ConversionRepository) error) error
}
