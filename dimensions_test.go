package invitepdf

import (
	"context"
	"testing"

	"github.com/ysmood/gson"
	"go.uber.org/zap"
)

func TestSnapToPixelRatio(t *testing.T) {
	t.Parallel()

	tests := []struct {
		name  string
		value float64
		ratio float64
		want  float64
	}{
		{name: "snaps to half pixel at ratio 2", value: 1180.3, ratio: 2, want: 1180.5},
		{name: "snaps down", value: 1180.2, ratio: 2, want: 1180},
		{name: "integer ratio 1", value: 1180.6, ratio: 1, want: 1181},
		{name: "ratio 3 thirds", value: 100.4, ratio: 3, want: 301.0 / 3},
		{name: "already aligned", value: 1180.5, ratio: 2, want: 1180.5},
		{name: "zero ratio treated as 1", value: 10.4, ratio: 0, want: 10},
	}

	for _, tt := range tests {
		tt := tt
		t.Run(tt.name, func(t *testing.T) {
			t.Parallel()

			if got := snapToPixelRatio(tt.value, tt.ratio); got != tt.want {
				t.Errorf("expected %v, got %v", tt.want, got)
			}
		})
	}
}

func TestMeasureHeight(t *testing.T) {
	t.Parallel()

	profile := DeviceProfile{Key: "test", PixelRatio: 2}

	tests := []struct {
		name   string
		height any
		evalOK bool
		want   float64
	}{
		{name: "tall page snapped", height: 1800.3, evalOK: true, want: 1800.5},
		{name: "below floor substitutes floor", height: 700.0, evalOK: true, want: 1200},
		{name: "measurement failure substitutes floor", evalOK: false, want: 1200},
		{name: "exactly at floor", height: 1200.0, evalOK: true, want: 1200},
	}

	for _, tt := range tests {
		tt := tt
		t.Run(tt.name, func(t *testing.T) {
			t.Parallel()

			page := &fakePage{
				evalFn: func(ctx context.Context, js string, args []any) (gson.JSON, error) {
					if !tt.evalOK {
						return gson.New(nil), context.DeadlineExceeded
					}
					return gson.New(tt.height), nil
				},
			}
			svc := newTestService(t, &fakeDriver{page: page})

			got := svc.measureHeight(context.Background(), zap.NewNop(), page, profile)
			if got != tt.want {
				t.Errorf("expected %v, got %v", tt.want, got)
			}
		})
	}
}
