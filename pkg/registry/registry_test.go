package registry

import (
	"context"
	"errors"
	"testing"

	"github.com/prometheus/client_golang/prometheus"

	"github.com/tomsilver/streamspec/pkg/domain"
	"github.com/tomsilver/streamspec/pkg/observability"
	"github.com/tomsilver/streamspec/pkg/schema"
)

func TestRegistry_Lookup(t *testing.T) {
	r := New()
	r.Register("sample-pose", FromList([]domain.Object{domain.Obj("p0", []float64{0, 0})}))

	if !r.Has("Sample-Pose") {
		t.Error("Has() should be case-insensitive")
	}

	gen, err := r.Generator("sample-pose", []domain.Object{domain.Sym("b1"), domain.Sym("table")})
	if err != nil {
		t.Fatalf("Generator() error = %v", err)
	}

	tuples, err := gen.Next(context.Background())
	if err != nil {
		t.Fatalf("Next() error = %v", err)
	}
	if len(tuples) != 1 || tuples[0][0].Name != "p0" {
		t.Errorf("tuples = %v, want one tuple [p0]", tuples)
	}
}

func TestRegistry_Unknown(t *testing.T) {
	_, err := New().Generator("missing", nil)
	if !errors.Is(err, domain.ErrGeneratorNotFound) {
		t.Errorf("Generator() error = %v, want ErrGeneratorNotFound", err)
	}
}

func TestRegistry_SizeGauge(t *testing.T) {
	reg := prometheus.NewRegistry()
	m := observability.NewMetrics(reg)

	r := New()
	r.InstrumentWith(m)
	r.Register("sample-pose", FromList())
	r.Register("plan-motion", FromList())
	r.Register("Sample-Pose", FromList()) // overwrite, not a new entry

	got := gaugeValue(t, reg, "streamspec_registry_generators")
	if got != 2 {
		t.Errorf("registry gauge = %v, want 2", got)
	}
}

func gaugeValue(t *testing.T, reg *prometheus.Registry, name string) float64 {
	t.Helper()
	families, err := reg.Gather()
	if err != nil {
		t.Fatalf("Gather() error = %v", err)
	}
	for _, fam := range families {
		if fam.GetName() == name {
			return fam.GetMetric()[0].GetGauge().GetValue()
		}
	}
	t.Fatalf("metric %s not gathered", name)
	return 0
}

func TestFromFunc_ExhaustsAfterOneCall(t *testing.T) {
	calls := 0
	factory := FromFunc(func(context.Context, []domain.Object) ([][]domain.Object, error) {
		calls++
		return [][]domain.Object{{domain.Sym("q0")}}, nil
	})

	gen := factory(nil)
	if _, err := gen.Next(context.Background()); err != nil {
		t.Fatalf("first Next() error = %v", err)
	}
	if _, err := gen.Next(context.Background()); !errors.Is(err, domain.ErrExhausted) {
		t.Fatalf("second Next() error = %v, want ErrExhausted", err)
	}
	if calls != 1 {
		t.Errorf("function called %d times, want 1", calls)
	}
}

func TestBatched_AttemptCounter(t *testing.T) {
	factory := Batched(func(_ context.Context, _ []domain.Object, attempt int) ([][]domain.Object, error) {
		if attempt >= 2 {
			return nil, domain.ErrExhausted
		}
		return [][]domain.Object{}, nil
	})

	gen := factory(nil)
	ctx := context.Background()
	for i := 0; i < 2; i++ {
		if _, err := gen.Next(ctx); err != nil {
			t.Fatalf("Next() #%d error = %v", i, err)
		}
	}
	if _, err := gen.Next(ctx); !errors.Is(err, domain.ErrExhausted) {
		t.Fatalf("Next() error = %v, want ErrExhausted", err)
	}
	// Exhaustion is sticky.
	if _, err := gen.Next(ctx); !errors.Is(err, domain.ErrExhausted) {
		t.Fatalf("Next() after exhaustion error = %v, want ErrExhausted", err)
	}
}

func TestRegistry_OutputSchema(t *testing.T) {
	r := New()
	r.Register("sample-pose", FromList(), WithOutputSchema(schema.Schema{"?p": schema.Slice(schema.Float())}))

	s := r.OutputSchema("sample-pose")
	if s == nil || s["?p"].Name() != "[float]" {
		t.Errorf("OutputSchema() = %v, want ?p typed [float]", s)
	}
	if r.OutputSchema("missing") != nil {
		t.Error("OutputSchema() for unknown stream should be nil")
	}
}

func TestDecodeArgs(t *testing.T) {
	type ikArgs struct {
		Block string    `mapstructure:"b"`
		Pose  []float64 `mapstructure:"p"`
	}

	params := []domain.Param{"?b", "?p"}
	inputs := []domain.Object{domain.Sym("b1"), domain.Obj("p0", []float64{0.5, 1.5})}

	var args ikArgs
	if err := DecodeArgs(params, inputs, &args); err != nil {
		t.Fatalf("DecodeArgs() error = %v", err)
	}
	if args.Block != "b1" {
		t.Errorf("Block = %q, want b1", args.Block)
	}
	if len(args.Pose) != 2 || args.Pose[1] != 1.5 {
		t.Errorf("Pose = %v, want [0.5 1.5]", args.Pose)
	}
}

func TestDecodeArgs_ArityMismatch(t *testing.T) {
	err := DecodeArgs([]domain.Param{"?b"}, nil, &struct{}{})
	if !errors.Is(err, domain.ErrArityMismatch) {
		t.Errorf("DecodeArgs() error = %v, want ErrArityMismatch", err)
	}
}
