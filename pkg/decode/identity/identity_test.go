//nolint:funlen // table driven
package identity

import (
	"testing"

	"github.com/google/go-cmp/cmp"

	"github.com/mpapenbr/ibt-analyzer-go/pkg/model"
)

func TestExtract(t *testing.T) {
	type args struct {
		fileName string
	}
	tests := []struct {
		name string
		args args
		want model.SessionIdentity
	}{
		{
			name: "full convention",
			args: args{fileName: "porsche992cup_roadatlanta full 2025-09-13 13-27-17.ibt"},
			want: model.SessionIdentity{
				Car: "porsche992cup", Track: "roadatlanta",
				Date: "2025-09-13", Time: "13:27:17",
				SessionType: model.Unknown,
			},
		},
		{
			name: "with session type",
			args: args{fileName: "toyotagr86_talladega Race 2025-10-01 09-05-00.ibt"},
			want: model.SessionIdentity{
				Car: "toyotagr86", Track: "talladega",
				Date: "2025-10-01", Time: "09:05:00",
				SessionType: "race",
			},
		},
		{
			name: "car and track only",
			args: args{fileName: "porsche992cup_sebring.ibt"},
			want: model.SessionIdentity{
				Car: "porsche992cup", Track: "sebring",
				Date: model.Unknown, Time: model.Unknown,
				SessionType: model.Unknown,
			},
		},
		{
			name: "track keeps remaining underscores",
			args: args{fileName: "mx5_mx52016_okayama full 2025-01-05 10-00-00.ibt"},
			want: model.SessionIdentity{
				Car: "mx5", Track: "mx52016_okayama",
				Date: "2025-01-05", Time: "10:00:00",
				SessionType: model.Unknown,
			},
		},
		{
			name: "no underscore in first token",
			args: args{fileName: "justsomething 2025-09-13 13-27-17.ibt"},
			want: model.SessionIdentity{
				Car: model.Unknown, Track: model.Unknown,
				Date: "2025-09-13", Time: "13:27:17",
				SessionType: model.Unknown,
			},
		},
		{
			name: "malformed date is ignored",
			args: args{fileName: "porsche992cup_roadatlanta full 2025-9-13x 13-27-17.ibt"},
			want: model.SessionIdentity{
				Car: "porsche992cup", Track: "roadatlanta",
				Date: model.Unknown, Time: model.Unknown,
				SessionType: model.Unknown,
			},
		},
		{
			name: "malformed time rejects date too",
			args: args{fileName: "porsche992cup_roadatlanta full 2025-09-13 morning.ibt"},
			want: model.SessionIdentity{
				Car: "porsche992cup", Track: "roadatlanta",
				Date: model.Unknown, Time: model.Unknown,
				SessionType: model.Unknown,
			},
		},
		{
			name: "empty filename",
			args: args{fileName: ""},
			want: model.SessionIdentity{
				Car: model.Unknown, Track: model.Unknown,
				Date: model.Unknown, Time: model.Unknown,
				SessionType: model.Unknown,
			},
		},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			got := Extract(tt.args.fileName)
			if diff := cmp.Diff(tt.want, got); diff != "" {
				t.Errorf("identity not correct: %s", diff)
			}
		})
	}
}

func TestFromBundle(t *testing.T) {
	tel := &model.Telemetry{FileName: "porsche992cup_roadatlanta full 2025-09-13 13-27-17.ibt"}
	got := FromBundle(tel, "/data/other_name.ibt")
	if got.Track != "roadatlanta" {
		t.Errorf("expected track from bundle file name, got %s", got.Track)
	}

	got = FromBundle(nil, "/data/toyotagr86_daytona full 2025-09-13 13-27-17.ibt")
	if got.Car != "toyotagr86" || got.Track != "daytona" {
		t.Errorf("expected identity from path, got %+v", got)
	}
}
