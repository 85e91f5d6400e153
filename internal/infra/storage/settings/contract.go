package settings

import (
	"github.com/m04kA/SMC-AppointmentService/pkg/dbmetrics"
)

// DBExecutor интерфейс для выполнения запросов (может быть *sql.DB или *sql.Tx)
type DBExecutor = dbmetrics.DBExecutor

// TxExecutor интерфейс для выполнения запросов в транзакции
type TxExecutor = dbmetrics.TxExecutor
