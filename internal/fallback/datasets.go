package fallback

import "github.com/harborlight/ipsearch/internal/records"

// Themed literal datasets. Plausible but synthetic; numbers sit in ranges no
// real filing occupies, and callers always see sourceUsed="fallback"
// alongside them.

var patentSets = map[theme][]records.PatentRecord{
	themeAI: {
		{
			PatentNumber: "US11900001B2",
			Title:        "Neural network architecture for real-time inference on edge devices",
			Abstract:     "A neural network inference engine that partitions computation between quantized on-device layers and selectively offloaded attention blocks, reducing latency for real-time classification workloads.",
			Inventors:    []string{"Elena V. Rodriguez", "James T. Chen"},
			Applicant:    "Cognitive Systems Corp.",
			FilingDate:   "2021-02-18",
			GrantDate:    "2023-11-07",
			Status:       "granted",
			URL:          "https://patents.google.com/patent/US11900001B2/en",
		},
		{
			PatentNumber: "US11900002B1",
			Title:        "Training data augmentation using generative adversarial models",
			Abstract:     "Methods for expanding labeled training corpora by conditioning a generative adversarial network on class-balanced embeddings, improving downstream model robustness under distribution shift.",
			Inventors:    []string{"Priya Natarajan"},
			Applicant:    "DeepForge Labs Inc.",
			FilingDate:   "2020-08-30",
			GrantDate:    "2023-04-12",
			Status:       "granted",
			URL:          "https://patents.google.com/patent/US11900002B1/en",
		},
		{
			ApplicationNumber: "18/345001",
			Title:             "Interpretable machine learning model selection for regulated industries",
			Abstract:          "A model governance pipeline that scores candidate machine learning models on accuracy and post-hoc explainability jointly, producing an auditable selection record.",
			Inventors:         []string{"Marcus O. Daly", "Yuki Tanaka"},
			Applicant:         "ClearModel Inc.",
			FilingDate:        "2023-06-21",
			Status:            "pending",
			URL:               "https://patents.google.com/patent/US20240012345A1/en",
		},
	},
	themeBlockchain: {
		{
			PatentNumber: "US11900101B2",
			Title:        "Distributed ledger system for supply chain provenance verification",
			Abstract:     "A permissioned distributed ledger that anchors per-shipment provenance attestations, with selective disclosure proofs allowing auditors to verify chain of custody without revealing counterparties.",
			Inventors:    []string{"Sarah M. Okafor", "Daniel R. Voss"},
			Applicant:    "LedgerTrace Technologies Inc.",
			FilingDate:   "2020-11-05",
			GrantDate:    "2023-09-19",
			Status:       "granted",
			URL:          "https://patents.google.com/patent/US11900101B2/en",
		},
		{
			PatentNumber: "US11900102B2",
			Title:        "Smart contract execution with deterministic gas metering",
			Abstract:     "A virtual machine for smart contract execution that meters instruction cost deterministically across heterogeneous validator hardware, eliminating consensus divergence from nondeterministic billing.",
			Inventors:    []string{"Tomás Herrera"},
			Applicant:    "ChainWorks Foundation",
			FilingDate:   "2021-04-27",
			GrantDate:    "2024-01-30",
			Status:       "granted",
			URL:          "https://patents.google.com/patent/US11900102B2/en",
		},
		{
			ApplicationNumber: "18/345101",
			Title:             "Cross-chain asset settlement using threshold signatures",
			Abstract:          "Settlement of tokenized assets across heterogeneous blockchains using threshold signature custody, removing single-operator bridge risk.",
			Inventors:         []string{"Amara K. Singh", "Pavel Novak"},
			Applicant:        "Interledger Systems LLC",
			FilingDate:        "2023-02-14",
			Status:            "pending",
			URL:               "https://patents.google.com/patent/US20230256789A1/en",
		},
	},
	themeQuantum: {
		{
			PatentNumber: "US11900201B2",
			Title:        "Error-corrected qubit array with modular surface code tiles",
			Abstract:     "A superconducting qubit array organized as interchangeable surface-code tiles, allowing defective tiles to be mapped out at calibration time without re-routing the full lattice.",
			Inventors:    []string{"Wei-Lin Huang", "Anders B. Sørensen"},
			Applicant:    "Coherent Quantum Devices Inc.",
			FilingDate:   "2021-07-09",
			GrantDate:    "2024-03-05",
			Status:       "granted",
			URL:          "https://patents.google.com/patent/US11900201B2/en",
		},
		{
			ApplicationNumber: "18/345201",
			Title:             "Quantum key distribution over deployed metropolitan fiber",
			Abstract:          "Quantum key distribution apparatus tolerant of polarization drift on deployed metropolitan fiber, with classical-channel reconciliation piggybacked on existing DWDM infrastructure.",
			Inventors:         []string{"Fatima Al-Rashid"},
			Applicant:         "PhotonSec Ltd.",
			FilingDate:        "2022-12-02",
			Status:            "pending",
			URL:               "https://patents.google.com/patent/US20230334567A1/en",
		},
	},
}

var trademarkSets = map[theme][]records.TrademarkRecord{
	themeAI: {
		{
			SerialNumber:       "97100001",
			RegistrationNumber: "7100001",
			Mark:               "NEURALEDGE",
			Owner:              "Cognitive Systems Corp.",
			FilingDate:         "2021-09-14",
			Status:             "registered",
			GoodsAndServices:   "Computer software for machine learning inference; IC 009",
			URL:                "https://tsdr.uspto.gov/#caseNumber=97100001&caseType=SERIAL_NO",
		},
		{
			SerialNumber:     "97100002",
			Mark:             "DEEPFORGE",
			Owner:            "DeepForge Labs Inc.",
			FilingDate:       "2023-01-25",
			Status:           "pending",
			GoodsAndServices: "Software as a service featuring artificial intelligence model training; IC 042",
			URL:              "https://tsdr.uspto.gov/#caseNumber=97100002&caseType=SERIAL_NO",
		},
	},
	themeBlockchain: {
		{
			SerialNumber:       "97100101",
			RegistrationNumber: "7100101",
			Mark:               "LEDGERTRACE",
			Owner:              "LedgerTrace Technologies Inc.",
			FilingDate:         "2020-12-08",
			Status:             "registered",
			GoodsAndServices:   "Downloadable software for distributed ledger provenance tracking; IC 009",
			URL:                "https://tsdr.uspto.gov/#caseNumber=97100101&caseType=SERIAL_NO",
		},
		{
			SerialNumber:     "97100102",
			Mark:             "CHAINWORKS",
			Owner:            "ChainWorks Foundation",
			FilingDate:       "2022-05-19",
			Status:           "live",
			GoodsAndServices: "Providing online non-downloadable software for smart contract deployment; IC 042",
			URL:              "https://tsdr.uspto.gov/#caseNumber=97100102&caseType=SERIAL_NO",
		},
	},
	themeQuantum: {
		{
			SerialNumber:       "97100201",
			RegistrationNumber: "7100201",
			Mark:               "QUBITWORKS",
			Owner:              "Coherent Quantum Devices Inc.",
			FilingDate:         "2021-11-30",
			Status:             "registered",
			GoodsAndServices:   "Quantum computing hardware and control electronics; IC 009",
			URL:                "https://tsdr.uspto.gov/#caseNumber=97100201&caseType=SERIAL_NO",
		},
		{
			SerialNumber:     "97100202",
			Mark:             "PHOTONSEC",
			Owner:            "PhotonSec Ltd.",
			FilingDate:       "2023-03-07",
			Status:           "pending",
			GoodsAndServices: "Quantum key distribution apparatus for secure communications; IC 009",
			URL:              "https://tsdr.uspto.gov/#caseNumber=97100202&caseType=SERIAL_NO",
		},
	},
}
