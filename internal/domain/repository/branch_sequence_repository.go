package repository

// BranchSequenceRepository define el puerto del contador de numeración por
// (sucursal, tipo de documento).
type BranchSequenceRepository interface {
	// Next incrementa atómicamente el contador y devuelve el nuevo número.
	// El incremento solo es observable al commit de la transacción del caller;
	// dos transacciones concurrentes nunca reciben el mismo número.
	// Retorna domain.ErrBranchNotFound si la sucursal no existe.
	Next(branchID, kind string) (int64, error)
	// Current devuelve el último número emitido (0 si nunca se emitió).
	Current(branchID, kind string) (int64, error)
}
