package booking

import (
	"github.com/m04kA/SMC-CleaningBooking/pkg/txmanager"
)

// DBExecutor общий интерфейс *sql.DB и *sql.Tx
type DBExecutor = txmanager.DBExecutor
