package event

import (
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestTypeString(t *testing.T) {
	tests := []struct {
		want string
		typ  Type
	}{
		{want: "Progress", typ: Progress},
		{want: "ProgressText", typ: ProgressText},
		{want: "ResultFound", typ: ResultFound},
		{want: "Finished", typ: Finished},
	}
	for _, tt := range tests {
		t.Run(tt.want, func(t *testing.T) {
			assert.Equal(t, tt.want, tt.typ.String())
		})
	}
}

func TestTypeStringUnknown(t *testing.T) {
	assert.Equal(t, "Unknown", Type(0).String())
	assert.Equal(t, "Unknown", Type(999).String())
}

func TestFuncs_NilFieldsIgnored(t *testing.T) {
	var got []int
	obs := Funcs{Progress: func(p int) { got = append(got, p) }}

	obs.OnProgress(5)
	obs.OnProgressText("ignored")
	obs.OnResult(Found{Path: "x"})
	obs.OnFinished(Done{})

	assert.Equal(t, []int{5}, got)
}

func TestChan_ResultsAndFinishedNeverDropped(t *testing.T) {
	ch := make(chan Event, 1)
	obs := Chan(ch)

	obs.OnProgress(1)
	obs.OnProgress(2) // dropped: buffer full
	require.Equal(t, Progress, (<-ch).Type)

	go func() {
		obs.OnResult(Found{Path: "/a"})
		obs.OnFinished(Done{Success: true, TotalFound: 1})
	}()

	select {
	case e := <-ch:
		assert.Equal(t, ResultFound, e.Type)
		assert.Equal(t, "/a", e.Result.Path)
	case <-time.After(time.Second):
		t.Fatal("result not delivered")
	}
	select {
	case e := <-ch:
		assert.Equal(t, Finished, e.Type)
		assert.True(t, e.Done.Success)
		assert.False(t, e.Timestamp.IsZero())
	case <-time.After(time.Second):
		t.Fatal("finished not delivered")
	}
}

type recorder struct {
	percents []int
	texts    []string
	done     []Done
	order    []Type
}

func (r *recorder) OnProgress(p int) {
	r.percents = append(r.percents, p)
	r.order = append(r.order, Progress)
}

func (r *recorder) OnProgressText(s string) {
	r.texts = append(r.texts, s)
	r.order = append(r.order, ProgressText)
}

func (r *recorder) OnResult(Found) { r.order = append(r.order, ResultFound) }

func (r *recorder) OnFinished(d Done) {
	r.done = append(r.done, d)
	r.order = append(r.order, Finished)
}

func TestReporter_MonotonicAndClamped(t *testing.T) {
	rec := &recorder{}
	r := NewReporter(rec)

	for _, p := range []int{0, 10, 10, 5, 50, 120, 99} {
		r.Percent(p)
	}
	r.Finish(Done{Success: true})

	assert.Equal(t, []int{0, 10, 50, 99, 100}, rec.percents)
}

func TestReporter_FinishedOnceAndLast(t *testing.T) {
	rec := &recorder{}
	r := NewReporter(rec)

	r.Text("working")
	r.Finish(Done{Success: false, Message: "cancelled"})
	r.Finish(Done{Success: true})
	r.Percent(42)
	r.Text("late")

	require.Len(t, rec.done, 1)
	assert.Equal(t, "cancelled", rec.done[0].Message)
	assert.Equal(t, []Type{ProgressText, Finished}, rec.order)
	assert.Empty(t, rec.percents, "failed runs do not report 100")
}

func TestReporter_NilObserver(t *testing.T) {
	r := NewReporter(nil)
	assert.NotPanics(t, func() {
		r.Percent(1)
		r.Text("x")
		r.Result(Found{})
		r.Finish(Done{Success: true})
	})
}
