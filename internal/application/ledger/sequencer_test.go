package ledger_test

import (
	"context"
	"sync"
	"testing"

	"github.com/oscarvc/kardex-api/internal/application/ledger"
	"github.com/oscarvc/kardex-api/internal/domain"
	"github.com/oscarvc/kardex-api/internal/domain/entity"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func newSequencerFixture() (*memStore, *ledger.Sequencer) {
	store := newMemStore()
	seedBranch(store, "branch-1", testCompanyA)
	return store, ledger.NewSequencer(newFakeTxRunner(store))
}

// Los números por (sucursal, tipo) son estrictamente crecientes desde 1 y los
// contadores de venta y compra avanzan de forma independiente.
func TestNextNumber_CrecienteEIndependientePorTipo(t *testing.T) {
	_, sequencer := newSequencerFixture()
	ctx := context.Background()

	for want := int64(1); want <= 3; want++ {
		got, err := sequencer.NextNumber(ctx, "branch-1", entity.SequenceKindSale)
		require.NoError(t, err)
		assert.Equal(t, want, got)
	}

	got, err := sequencer.NextNumber(ctx, "branch-1", entity.SequenceKindPurchase)
	require.NoError(t, err)
	assert.Equal(t, int64(1), got, "el contador de compras no comparte numeración con ventas")
}

// Sucursales distintas llevan numeración propia.
func TestNextNumber_IndependientePorSucursal(t *testing.T) {
	store, sequencer := newSequencerFixture()
	seedBranch(store, "branch-2", testCompanyA)
	ctx := context.Background()

	first, err := sequencer.NextNumber(ctx, "branch-1", entity.SequenceKindSale)
	require.NoError(t, err)
	second, err := sequencer.NextNumber(ctx, "branch-2", entity.SequenceKindSale)
	require.NoError(t, err)

	assert.Equal(t, int64(1), first)
	assert.Equal(t, int64(1), second)
}

func TestNextNumber_SucursalInexistente(t *testing.T) {
	_, sequencer := newSequencerFixture()

	_, err := sequencer.NextNumber(context.Background(), "no-existe", entity.SequenceKindSale)
	assert.ErrorIs(t, err, domain.ErrBranchNotFound)
}

func TestNextNumber_TipoInvalido(t *testing.T) {
	_, sequencer := newSequencerFixture()

	_, err := sequencer.NextNumber(context.Background(), "branch-1", "QUOTE")
	assert.ErrorIs(t, err, domain.ErrInvalidInput)
}

// Bajo concurrencia nunca se entregan números repetidos.
func TestNextNumber_ConcurrenciaSinDuplicados(t *testing.T) {
	_, sequencer := newSequencerFixture()
	ctx := context.Background()

	const goroutines = 20
	numbers := make(chan int64, goroutines)
	var wg sync.WaitGroup
	for i := 0; i < goroutines; i++ {
		wg.Add(1)
		go func() {
			defer wg.Done()
			n, err := sequencer.NextNumber(ctx, "branch-1", entity.SequenceKindSale)
			assert.NoError(t, err)
			numbers <- n
		}()
	}
	wg.Wait()
	close(numbers)

	seen := make(map[int64]bool)
	for n := range numbers {
		assert.False(t, seen[n], "número duplicado: %d", n)
		seen[n] = true
	}
	assert.Len(t, seen, goroutines)
}
