package types_test

import (
	"testing"

	"github.com/goccy/go-json"
	. "github.com/smartystreets/goconvey/convey"

	"github.com/okian/rating/internal/domain/ranking"
	types "github.com/okian/rating/internal/domain/types"
)

func TestFromRanking(t *testing.T) {
	Convey("Given ranked entries", t, func() {
		in := []ranking.Entry{
			{Rank: 1, UserID: "1", Name: "Ann", Score: 50},
			{Rank: 2, UserID: "2", Name: "Bo", Score: 30},
		}

		Convey("When converting to the wire form", func() {
			out := types.FromRanking(in)

			Convey("Then order and values should be kept", func() {
				So(out, ShouldResemble, []types.Entry{
					{Rank: 1, UserID: "1", Name: "Ann", Score: 50},
					{Rank: 2, UserID: "2", Name: "Bo", Score: 30},
				})
			})
		})

		Convey("When converting nothing", func() {
			out := types.FromRanking(nil)
			data, err := json.Marshal(out)

			Convey("Then it should encode as an empty array", func() {
				So(err, ShouldBeNil)
				So(string(data), ShouldEqual, "[]")
			})
		})
	})
}

func TestEntryJSON(t *testing.T) {
	Convey("Given an Entry", t, func() {
		e := types.Entry{Rank: 1, UserID: "7", Name: "Ann", Score: 10.5}

		Convey("When it is marshaled", func() {
			data, err := json.Marshal(e)

			Convey("Then the field names should match the API", func() {
				So(err, ShouldBeNil)
				So(string(data), ShouldEqual, `{"rank":1,"user_id":"7","name":"Ann","score":10.5}`)
			})
		})

		Convey("When the status and error bodies are marshaled", func() {
			ok, _ := json.Marshal(types.UpdateResponse{Status: "ok"})
			bad, _ := json.Marshal(types.ErrorResponse{Code: "validation_error", Message: "invalid score: missing"})

			Convey("Then they should have the documented shape", func() {
				So(string(ok), ShouldEqual, `{"status":"ok"}`)
				So(string(bad), ShouldEqual, `{"code":"validation_error","message":"invalid score: missing"}`)
			})
		})
	})
}
