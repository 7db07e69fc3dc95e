package reward

import (
	"testing"
)

func TestGrantFor(t *testing.T) {
	// threshold=10：每10个成交量发1个代币，日上限100
	cases := []struct {
		name      string
		volume    float64
		issued    int64
		threshold float64
		cap       int64
		want      int64
	}{
		{"刚好不到阈值", 9.999, 0, 10, 100, 0},
		{"刚好到阈值", 10, 0, 10, 100, 1},
		{"跨多个阈值", 35, 0, 10, 100, 3},
		{"已发放部分", 35, 2, 10, 100, 1},
		{"已全部发放", 35, 3, 10, 100, 0},
		{"达到单日上限", 2000, 0, 10, 100, 100},
		{"上限之后不再发放", 2000, 100, 10, 100, 0},
		{"接近上限只发余量", 2000, 98, 10, 100, 2},
		{"阈值非法", 100, 0, 0, 100, 0},
		{"issued超过应得数不为负", 10, 5, 10, 100, 0},
	}
	for _, tc := range cases {
		t.Run(tc.name, func(t *testing.T) {
			if got := grantFor(tc.volume, tc.issued, tc.threshold, tc.cap); got != tc.want {
				t.Errorf("grantFor(%f, %d, %f, %d) = %d, want %d",
					tc.volume, tc.issued, tc.threshold, tc.cap, got, tc.want)
			}
		})
	}
}

// 一天内逐笔累计的完整过程：先不够、后达标、最终到顶
func TestGrantForAccumulates(t *testing.T) {
	const (
		threshold = 10.0
		cap       = 3
	)
	var (
		volume float64
		issued int64
	)
	steps := []struct {
		add  float64
		want int64
	}{
		{4, 0},  // 4
		{5, 0},  // 9
		{1, 1},  // 10 -> 第1个
		{15, 1}, // 25 -> 第2个
		{100, 1}, // 125，应得12个但只剩1个额度
		{50, 0}, // 封顶后不再发放
	}
	for i, s := range steps {
		volume += s.add
		got := grantFor(volume, issued, threshold, cap)
		if got != s.want {
			t.Fatalf("step %d: grant = %d, want %d (volume=%f issued=%d)", i, got, s.want, volume, issued)
		}
		issued += got
	}
	if issued != cap {
		t.Errorf("issued = %d, want %d", issued, cap)
	}
}
