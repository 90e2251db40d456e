package domain_test

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"go.trai.ch/skeleton/internal/core/domain"
)

func names(pkgs []domain.Package) []string {
	out := make([]string, len(pkgs))
	for i, p := range pkgs {
		out[i] = p.Name
	}
	return out
}

// chain builds a -> b -> c, each with one external dependency.
func chain() *domain.Workspace {
	ws := domain.NewWorkspace("/ws")
	ws.AddMember(domain.NewPackage("a", idA, []domain.PackageID{idB, idExt1}))
	ws.AddMember(domain.NewPackage("b", idB, []domain.PackageID{idC, idExt2}))
	ws.AddMember(domain.NewPackage("c", idC, []domain.PackageID{idExt1}))
	return ws
}

func TestClosure_OneHop(t *testing.T) {
	ws := chain()

	assert.Equal(t, []string{"a", "b"}, names(ws.Closure([]domain.PackageID{idA}, domain.ExpandOneHop)))
	assert.Equal(t, []string{"a", "b", "c"}, names(ws.Closure([]domain.PackageID{idA, idB}, domain.ExpandOneHop)))
}

func TestClosure_Transitive(t *testing.T) {
	ws := chain()

	assert.Equal(t, []string{"a", "b", "c"}, names(ws.Closure([]domain.PackageID{idA}, domain.ExpandTransitive)))
}

func TestClosure_CycleTerminates(t *testing.T) {
	ws := domain.NewWorkspace("/ws")
	ws.AddMember(domain.NewPackage("a", idA, []domain.PackageID{idB}))
	ws.AddMember(domain.NewPackage("b", idB, []domain.PackageID{idA}))

	assert.Equal(t, []string{"a", "b"}, names(ws.Closure([]domain.PackageID{idA}, domain.ExpandTransitive)))
}

func TestClosure_DropsNonMembers(t *testing.T) {
	ws := chain()

	assert.Empty(t, ws.Closure([]domain.PackageID{idExt1}, domain.ExpandTransitive))
	assert.Empty(t, ws.Closure(nil, domain.ExpandOneHop))
}
