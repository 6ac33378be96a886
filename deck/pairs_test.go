package deck

import "testing"

func TestSplitPairs(t *testing.T) {
	cases := []struct {
		name        string
		top, bottom string
		want        []Pair
	}{
		{
			name: "both empty",
			want: []Pair{{}},
		},
		{
			name: "equal length",
			top:  "t1\nt2", bottom: "b1\nb2",
			want: []Pair{{"t1", "b1"}, {"t2", "b2"}},
		},
		{
			name: "bottom padded",
			top:  "t1\nt2\nt3", bottom: "b1",
			want: []Pair{{"t1", "b1"}, {"t2", ""}, {"t3", ""}},
		},
		{
			name: "top padded",
			top:  "t1", bottom: "b1\nb2",
			want: []Pair{{"t1", "b1"}, {"", "b2"}},
		},
		{
			name: "empty lines survive",
			top:  "t1\n\nt3", bottom: "b1\nb2\nb3",
			want: []Pair{{"t1", "b1"}, {"", "b2"}, {"t3", "b3"}},
		},
		{
			name: "trailing newline ignored",
			top:  "t1\n", bottom: "b1\n",
			want: []Pair{{"t1", "b1"}},
		},
	}
	for _, c := range cases {
		t.Run(c.name, func(t *testing.T) {
			got := SplitPairs(c.top, c.bottom)
			if len(got) != len(c.want) {
				t.Fatalf("got %d pairs, want %d", len(got), len(c.want))
			}
			for i := range got {
				if got[i] != c.want[i] {
					t.Errorf("pair %d = %+v, want %+v", i, got[i], c.want[i])
				}
			}
		})
	}
}
