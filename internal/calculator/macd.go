package calculator

import "errors"

// Conventional MACD spans.
const (
	DefaultMACDShort  = 12
	DefaultMACDLong   = 26
	DefaultMACDSignal = 9
)

// MACD returns the MACD line EMA(short) - EMA(long) and its EMA(signal) signal line.
// Both are defined from the first bar; short histories yield values from fewer samples.
func MACD(closes []float64, short, long, signal int) (line, signalLine []float64, err error) {
	if short <= 0 || long <= 0 || signal <= 0 {
		return nil, nil, errPeriod
	}
	if short >= long {
		return nil, nil, errors.New("short span must be less than long span")
	}
	shortEMA, _ := EMA(closes, short)
	longEMA, _ := EMA(closes, long)
	line = make([]float64, len(closes))
	for i := range closes {
		line[i] = shortEMA[i] - longEMA[i]
	}
	signalLine, _ = EMA(line, signal)
	return line, signalLine, nil
}
