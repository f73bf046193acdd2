package pulse

// attThresholds holds the amp_to_att / mag_to_att lookup tables as
// (exclusive lower bound, attenuation in dB offset by 3) pairs, ordered
// from loudest to quietest. Ported from pulse_detect.c's amp_to_att and
// mag_to_att, which list the same 37 buckets as a chain of if-returns;
// expressed here as a table walked linearly since the C source's only
// real work is choosing the first bucket whose bound the sample clears.
var ampAttThresholds = [36]int{
	32690, 25967, 20626, 16383, 13014, 10338, 8211, 6523, 5181, 4115,
	3269, 2597, 2063, 1638, 1301, 1034, 821, 652, 518, 412,
	327, 260, 206, 164, 130, 103, 82, 65, 52, 41,
	33, 26, 21, 16, 13, 10,
}

var magAttThresholds = [36]int{
	23143, 20626, 18383, 16383, 14602, 13014, 11599, 10338, 9213, 8211,
	7318, 6523, 5813, 5181, 4618, 4115, 3668, 3269, 2914, 2597,
	2314, 2063, 1838, 1638, 1460, 1301, 1160, 1034, 921, 821,
	732, 652, 581, 518, 462, 412,
}

func lookupAtt(v int, thresholds *[36]int) int {
	for i, bound := range thresholds {
		if v > bound {
			return i
		}
	}
	return 36
}

// ampToAtt converts an amplitude estimate (16384 full-scale) to an
// attenuation bucket in integer dB, offset by 3.
func ampToAtt(a int) int { return lookupAtt(a, &ampAttThresholds) }

// magToAtt converts a magnitude estimate (16384 full-scale) to an
// attenuation bucket in integer dB, offset by 3.
func magToAtt(m int) int { return lookupAtt(m, &magAttThresholds) }

// AttHistogram is a 37-bucket attenuation distribution accumulated during
// one Package call while Verbosity >= LOG_NOTICE.
type AttHistogram [37]int
