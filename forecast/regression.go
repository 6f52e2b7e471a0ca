// C:\Users\wasab\OneDrive\デスクトップ\KAIENTAI\forecast\regression.go
package forecast

// Point は回帰の1標本です。
type Point struct {
	X float64
	Y float64
}

// Regression は最小二乗法の当てはめ結果です。
type Regression struct {
	Slope     float64 `json:"slope"`
	Intercept float64 `json:"intercept"`
	R2        float64 `json:"r2"` // 決定係数 [0,1]
	N         int     `json:"n"`
}

// Fit は単回帰を最小二乗法で当てはめます。
// 標本が2点未満のときは傾き0、全分散がほぼ0のときはR²=0を返します。
func Fit(points []Point) Regression {
	n := len(points)
	if n < 2 {
		reg := Regression{N: n}
		if n == 1 {
			reg.Intercept = points[0].Y
		}
		return reg
	}

	var sumX, sumY float64
	for _, p := range points {
		sumX += p.X
		sumY += p.Y
	}
	meanX := sumX / float64(n)
	meanY := sumY / float64(n)

	var sxx, sxy float64
	for _, p := range points {
		dx := p.X - meanX
		sxx += dx * dx
		sxy += dx * (p.Y - meanY)
	}
	if sxx == 0 {
		return Regression{Intercept: meanY, N: n}
	}
	slope := sxy / sxx
	intercept := meanY - slope*meanX

	var ssTot, ssRes float64
	for _, p := range points {
		dy := p.Y - meanY
		ssTot += dy * dy
		resid := p.Y - (slope*p.X + intercept)
		ssRes += resid * resid
	}
	r2 := 0.0
	if ssTot > 1e-9 {
		r2 = 1 - ssRes/ssTot
		if r2 < 0 {
			r2 = 0
		}
		if r2 > 1 {
			r2 = 1
		}
	}
	return Regression{Slope: slope, Intercept: intercept, R2: r2, N: n}
}
