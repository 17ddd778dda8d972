package dataset

// HeaderRule maps one garbled raw header cell, exactly as extracted from
// the rate-table PDF, to its canonical column name.
type HeaderRule struct {
	Garbled   string
	Canonical string
}

// RateHeaderRules is the static header-reconstruction table for the weekly
// interest-rate PDF. The garbled strings are vertical-text artifacts of the
// PDF lattice and are matched verbatim. The list is ordered; when two rules
// resolve to the same canonical name (the source repeats some bank columns)
// the later occurrence wins, deterministically.
var RateHeaderRules = []HeaderRule{
	{"K\nN\nA\nB\nA\nM\nEW", "Wema Bank"},
	{"K\nN\nA\nB\nH\nTIN\nE\nZ", "Zenith Bank"},
	{"K\nN\nA\nB\nITIC", "Citibank"},
	{"K\nN\nN O ITA A B TN\nN O R O C A H C R EM", "Coronation Merchant Bank"},
	{"K\nN\nA\nB\nO\nC\nE", "Eco Bank"},
	{"K\nN\nA\nB\nTSP", "FirstBank"},
	{"K\nN\nA\nB\nF", "FCMB"},
	{"K\nN\nA\nB\nY\nTILED\nIF", "Fidelity Bank"},
	{"FO\nK\nN\nA\nB A\nTSR IR\nEG\nIF IN", "First City Monument Bank"},
	{"TN\nA\nH\nC\nR\nEM\nH D S F K N A B", "FSDH Merchant Bank"},
	{"D\nTL\nK\nN\nA\nB\nSU\nB\nO\nLG", "Globus Bank"},
	{"K\nN\nA\nH B\nC TN\nIW N EER A H C\nR\nG EM", "Greenwich Merchant Bank"},
	{"TSU\nR\nT\nY\nTN\nA\nR A U G K N A B", "Guaranty Trust Bank"},
	{"K\nN\nA\nB\nEN\nO\nTSYEK\nD\nTL", "Keystone Bank"},
	{"K\nN\nA\nB\nA\nVO\nN", "Nova Merchant Bank"},
	{"K\nN\nA\nB\nSU\nM\nITPO", "Optimus Bank"},
	{"K\nN\nA\nB\nXE\nLLA\nR\nA\nP", "Parallex Bank"},
	{"K\nN\nA\nB\nSIR\nA\nLO\nP", "Polaris Bank"},
	{"TSU\nR\nT\nM\nU\nIM ER K N\nP A B", "Premium Trust Bank"},
	{"K\nN\nA\nB\nSU\nD\nIVO\nR\nP", "Providus Bank"},
	{"TN\nA H C D TL\nR EM .G\nIN\nD N A R K N A B", "Rand Merchant Bank"},
	{"K\nN\nA\nB\nER\nU\nTA\nN\nG\nIS", "Signature Bank"},
	{"C\nTB\nI C\nIB\nN\nA\nTS", "Stanbic IBTC Bank"},
	{"K\nN\nA\nB\nD R D ER\nA D N E TR\nA TS A H\nC", "Standard Chartered Bank"},
	{"K\nN\nA\nB\nG\nN\nILR\nE\nTS", "Sterling Bank"},
	{"K\nN\nA\nB\nTSU\nR\nTN\nU\nS", "Suntrust Bank"},
	{"K\nN\nA\nB\nM\nU\nTA\nT", "Titan Trust Bank"},
	{"R\nO\nF\nK\nN\nA\nB\nD E TIN A C IR\nU FA", "Unified Bank for Africa"},
	{"K\nN\nA\nB\nN\nO\nIN\nU", "Union Bank"},
	{"K\nN\nA\nB\nY\nTIN\nU", "Unity Bank"},
	{"K\nN\nA\nB\nA\nM\nEW", "Wema Bank"},
	{"K\nN\nA\nB\nH\nTIN\nE\nZ", "Zenith Bank"},
}

// CanonicalFor returns the canonical name for a raw header cell. Later
// rules shadow earlier ones so the scan runs back to front.
func CanonicalFor(rules []HeaderRule, garbled string) (string, bool) {
	for i := len(rules) - 1; i >= 0; i-- {
		if rules[i].Garbled == garbled {
			return rules[i].Canonical, true
		}
	}
	return "", false
}
