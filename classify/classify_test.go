package classify

import (
	"fmt"
	"testing"

	"github.com/andaru/xmlrows/rowerr"
	"github.com/stretchr/testify/assert"
)

func TestClassify(t *testing.T) {
	for _, tc := range []struct {
		dataLevel, flattenLevel int
		want                    []Class // by depth, starting at 1
	}{
		{
			dataLevel: 2,
			want:      []Class{Outside, RowStart, Structural, Structural, Structural, Structural},
		},
		{
			dataLevel: 1,
			want:      []Class{RowStart, Structural, Structural},
		},
		{
			dataLevel:    2,
			flattenLevel: 2,
			want:         []Class{Outside, RowStart, Flattened, Flattened},
		},
		{
			dataLevel:    2,
			flattenLevel: 4,
			want:         []Class{Outside, RowStart, Structural, Structural, Flattened, Flattened},
		},
		{
			dataLevel: 8,
			want:      []Class{Outside, Outside, Outside, Outside, Outside, Outside, Outside, RowStart, Structural},
		},
	} {
		t.Run(fmt.Sprintf("data=%d,flatten=%d", tc.dataLevel, tc.flattenLevel), func(t *testing.T) {
			check := assert.New(t)
			c, err := New(tc.dataLevel, tc.flattenLevel)
			if !check.NoError(err) {
				return
			}
			var got []Class
			for depth := 1; depth <= len(tc.want); depth++ {
				got = append(got, c.Classify(depth))
			}
			check.Equal(tc.want, got)
		})
	}
}

func TestNewErrors(t *testing.T) {
	for _, tc := range []struct {
		dataLevel, flattenLevel int
		wantErr                 string
	}{
		{dataLevel: 0, wantErr: "configuration error data level must be >= 1, got 0"},
		{dataLevel: -3, wantErr: "configuration error data level must be >= 1, got -3"},
		{dataLevel: 2, flattenLevel: -1, wantErr: "configuration error flatten level must be >= 0, got -1"},
		{dataLevel: 3, flattenLevel: 2, wantErr: "configuration error flatten level 2 is above data level 3"},
	} {
		t.Run(tc.wantErr, func(t *testing.T) {
			check := assert.New(t)
			c, err := New(tc.dataLevel, tc.flattenLevel)
			check.Nil(c)
			if check.Error(err) {
				check.Equal(tc.wantErr, err.Error())
				check.True(rowerr.Is(err, rowerr.KindConfiguration))
			}
		})
	}
}

func TestClassString(t *testing.T) {
	check := assert.New(t)
	check.Equal("row-start", RowStart.String())
	check.Equal("flattened", Flattened.String())
	check.Equal("Class(9)", Class(9).String())
}
