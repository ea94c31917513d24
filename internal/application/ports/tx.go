package ports

import (
	"context"

	"github.com/jhoicas/obras-api/internal/domain/repository"
)

// Repos agrupa los repositorios atados a una misma conexión o transacción.
type Repos struct {
	Users         repository.UserRepository
	Projects      repository.ProjectRepository
	Milestones    repository.MilestoneRepository
	Tasks         repository.TaskRepository
	Materials     repository.MaterialRepository
	Suppliers     repository.SupplierRepository
	Categories    repository.CategoryRepository
	Units         repository.UnitRepository
	Requests      repository.MaterialRequestRepository
	Actions       repository.MaterialRequestActionRepository
	Deliveries    repository.MaterialDeliveryRepository
	Verifications repository.MaterialVerificationRepository
	Movements     repository.InventoryMovementRepository
	Assets        repository.AssetRepository
	Logs          repository.AuditLogRepository
}

// TxRunner ejecuta fn dentro de una transacción, pasando repositorios atados a ella.
// Si fn devuelve error se hace Rollback completo; si no, Commit.
type TxRunner interface {
	Run(ctx context.Context, fn func(r Repos) error) error
}
