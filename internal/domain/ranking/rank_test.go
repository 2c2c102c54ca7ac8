package ranking

import (
	"fmt"
	"testing"

	"github.com/leanovate/gopter"
	"github.com/leanovate/gopter/gen"
	"github.com/leanovate/gopter/prop"
	. "github.com/smartystreets/goconvey/convey"

	"github.com/okian/rating/internal/domain/model"
)

func table(records ...model.Record) model.Table {
	t := model.NewTable()
	for _, r := range records {
		t[r.UserID] = r
	}
	return t
}

func TestRank(t *testing.T) {
	Convey("Given tables of different sizes", t, func() {
		Convey("When ranking an empty table", func() {
			out := Rank(model.NewTable())

			Convey("Then the result should be empty", func() {
				So(out, ShouldBeEmpty)
				So(Assign(out), ShouldBeEmpty)
			})
		})

		Convey("When ranking a single player", func() {
			out := Rank(table(model.Record{UserID: "1", Name: "Ann", Score: 10}))

			Convey("Then that player should be first", func() {
				So(len(out), ShouldEqual, 1)
				So(out[0].Name, ShouldEqual, "Ann")
			})
		})

		Convey("When ranking the reference scenario", func() {
			out := Rank(table(
				model.Record{UserID: "1", Name: "Ann", Score: 50},
				model.Record{UserID: "2", Name: "Bo", Score: 30},
			))

			Convey("Then Ann should precede Bo", func() {
				So(out, ShouldResemble, []model.Record{
					{UserID: "1", Name: "Ann", Score: 50},
					{UserID: "2", Name: "Bo", Score: 30},
				})
			})
		})

		Convey("When scores tie", func() {
			out := Assign(Rank(table(
				model.Record{UserID: "c", Name: "Cy", Score: 5},
				model.Record{UserID: "a", Name: "Abe", Score: 5},
				model.Record{UserID: "z", Name: "Zed", Score: 9},
				model.Record{UserID: "b", Name: "Bea", Score: 1},
			)))

			Convey("Then user_id should break the tie and tied players share a rank", func() {
				ids := []string{out[0].UserID, out[1].UserID, out[2].UserID, out[3].UserID}
				So(ids, ShouldResemble, []string{"z", "a", "c", "b"})
				ranks := []int{out[0].Rank, out[1].Rank, out[2].Rank, out[3].Rank}
				So(ranks, ShouldResemble, []int{1, 2, 2, 3})
			})
		})
	})
}

func TestIndex(t *testing.T) {
	Convey("Given an empty index", t, func() {
		x := NewIndex()

		Convey("When players are put and replaced", func() {
			x.Put(model.Record{UserID: "1", Name: "Ann", Score: 10})
			x.Put(model.Record{UserID: "2", Name: "Bo", Score: 30})
			x.Put(model.Record{UserID: "1", Name: "Ann", Score: 50})

			Convey("Then the order should follow the latest scores", func() {
				So(x.Len(), ShouldEqual, 2)
				So(x.All(), ShouldResemble, []model.Record{
					{UserID: "1", Name: "Ann", Score: 50},
					{UserID: "2", Name: "Bo", Score: 30},
				})
			})
		})

		Convey("When a name changes without a score change", func() {
			x.Put(model.Record{UserID: "1", Name: "Ann", Score: 10})
			x.Put(model.Record{UserID: "1", Name: "Annie", Score: 10})

			Convey("Then the entry should carry the new name once", func() {
				So(x.All(), ShouldResemble, []model.Record{{UserID: "1", Name: "Annie", Score: 10}})
			})
		})

		Convey("When rebuilt from a table", func() {
			x.Put(model.Record{UserID: "gone", Name: "Old", Score: 99})
			x.Replace(table(model.Record{UserID: "1", Name: "Ann", Score: 1}))

			Convey("Then previous contents should be discarded", func() {
				So(x.All(), ShouldResemble, []model.Record{{UserID: "1", Name: "Ann", Score: 1}})
			})
		})
	})
}

type op struct {
	id    int
	score int
}

func TestIndexProperties(t *testing.T) {
	properties := gopter.NewProperties(nil)

	genOps := gen.SliceOf(gopter.CombineGens(gen.IntRange(0, 20), gen.IntRange(-5, 5)).Map(func(v []interface{}) op {
		return op{id: v[0].(int), score: v[1].(int)}
	}))

	properties.Property("index order equals Rank after any sequence of upserts", prop.ForAll(
		func(ops []op) bool {
			x := NewIndex()
			tbl := model.NewTable()
			for _, o := range ops {
				r := model.Record{UserID: fmt.Sprintf("u%d", o.id), Name: "p", Score: float64(o.score)}
				x.Put(r)
				tbl[r.UserID] = r
			}
			got, want := x.All(), Rank(tbl)
			if len(got) != len(want) {
				return false
			}
			for i := range got {
				if got[i] != want[i] {
					return false
				}
			}
			return true
		},
		genOps,
	))

	properties.Property("Rank output is sorted by score descending", prop.ForAll(
		func(ops []op) bool {
			tbl := model.NewTable()
			for _, o := range ops {
				id := fmt.Sprintf("u%d", o.id)
				tbl[id] = model.Record{UserID: id, Name: "p", Score: float64(o.score)}
			}
			out := Rank(tbl)
			for i := 1; i < len(out); i++ {
				if out[i].Score > out[i-1].Score {
					return false
				}
			}
			return len(out) == tbl.Len()
		},
		genOps,
	))

	properties.TestingRun(t, gopter.ConsoleReporter(false))
}
