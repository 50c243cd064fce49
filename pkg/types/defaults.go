// Copyright Mesh Intelligence Inc., 2026. All rights reserved.

package types

import "time"

// DefaultPipelineConfig returns the configuration used when no config file
// overrides a setting. The queries and rules target a child-robot
// interaction review; replace them in sysreview.yaml for other topics.
func DefaultPipelineConfig() PipelineConfig {
	return PipelineConfig{
		Consolidation: ConsolidationConfig{
			SourcesDir: ".",
			Sources:    []string{"IEEE", "WoS", "SD", "Scopus", "ACM", "PubMed"},
			Extensions: []string{".bib", ".ris", ".txt", ".nbib"},
			DocumentTypes: map[string][]string{
				"Conf": {"Inproceedings", "Cpaper", "CONF", "Conference Paper", "Proc", "proceeding",
					"proceedings", "Workshop", "Symposium", "techreport", "STD"},
				"Journal": {"Jour", "Journal", "Article", "Journ", "Jrnl", "Research Article", "Review",
					"Editorial", "Magazine", "E-A-Articles"},
				"Book": {"Book", "inbook", "Book Chapter", "Monograph", "Edited Volume", "Handbook",
					"Lecture Notes", "Chap", "Chapter"},
			},
		},
		Dedup: DedupConfig{
			FuzzyThreshold:   95,
			YearWindow:       1,
			PreferredSources: []string{"WoS", "Scopus", "IEEE", "ACM", "SD", "PubMed"},
			TitlesToRemove: []string{"Index", "INDEX", "Subject Index", "PC-FACS", "Contents", "Preface",
				"Table of Contents", "ISSID", "Acknowledgement to Reviewers", "Contributors",
				"Authors’ biographies", "List of Abbreviations"},
			AbstractsToRemove: []string{"Background", "Purpose", "Abstract:", "Abstract", "Objective",
				"Context", "ABSTRACT", "Context:"},
			ExcludedDocumentTypes: []string{"book"},
		},
		Relevance: RelevanceConfig{
			Stages: []StageQuery{
				{Name: "Stage 1 – Broad Search", Query: stage1Query},
				{Name: "Stage 2 – Narrow Search", Query: stage2Query},
				{Name: "Stage 3 – Specific Search", Query: stage3Query},
			},
		},
		Classifier: ClassifierConfig{
			Rules:    defaultCategoryRules(),
			Priority: defaultPriority(),
			Mode:     ModeBoth,
		},
		Screening: ScreeningConfig{
			AIConfig: AIConfig{
				Provider:   "openai",
				Model:      "gpt-4.1-mini",
				MaxRetries: 1,
				Timeout:    120 * time.Second,
			},
			PDFDir:        "paperpdf",
			MaxTextLength: 150000,
			RequestDelay:  time.Second,
			Concurrency:   1,
			Criteria:      defaultCriteria,
		},
		Analysis: AnalysisConfig{
			StartYear:  2010,
			EndYear:    2023,
			TopSources: 10,
		},
		Output: OutputConfig{
			ResultsDir: "results",
			Format:     "xlsx",
		},
		Log: LogConfig{
			Level:  "info",
			Format: "console",
		},
	}
}

const stage1Query = `((Human-Robot OR Human Robot OR Human-robot Interaction OR Human robot Interaction OR HRI OR ` +
	`Child Robot OR Child-Robot OR Child-robot Interaction OR Child robot Interaction OR CRI OR Interact*) AND ` +
	`(Robot* OR Robotics) AND ` +
	`(User* OR Human* OR Person* OR People OR Child* OR Infant* OR Adult* OR Elderly OR Toddler* OR Preschool* OR School* OR ` +
	`Classroom OR Caregiver* OR Parent* OR Family OR Pediatric* ) AND ` +
	`(Social* OR Communicat* OR Dialogue OR Speech OR Languag* OR Talker OR Convers* OR Play OR Engagement OR Emotion* OR ` +
	`Cognit* OR Joint Attention OR Autism OR Neurodivergent OR Development* OR Interaction* OR Support OR Therapy OR ` +
	`Assistive OR Companion OR Service OR Healthcare OR Educat* OR Learn* OR Teach* OR Child-Directed OR vocaliz* OR vocabular*))`

const stage2Query = `((Child Robot OR Child-Robot OR Child-robot Interaction OR Child robot Interaction OR CRI OR Interact*) AND ` +
	`(Robot* OR Robotics) AND ` +
	`(User* OR Adult* OR Child* OR Infant* OR Toddler* OR Preschool* OR School* OR Classroom OR Caregiver* OR Parent* OR ` +
	`Family OR Pediatric* ) AND ` +
	`(Social* OR Communicat* OR Dialogue OR Speech OR Languag* OR Talker OR Play OR Engagement OR Emotion* OR Cognit* OR ` +
	`Joint Attention OR Development* OR Interaction* OR Support OR Assistive OR  Educat* OR Learn* OR Teach* OR ` +
	`Child-Directed OR vocaliz* OR vocabular*))`

const stage3Query = `((Child Robot OR Child-Robot OR Child-robot Interaction OR Child robot Interaction OR CRI OR Interact*) AND ` +
	`(Robot* OR Robotics) AND ` +
	`(Child* OR Infant* OR Toddler* OR Caregiver* OR Parent*) AND ` +
	`(Social* OR Communicat* OR Dialogue OR Speech OR Languag* OR Talker OR Play OR Engagement OR Emotion* OR Cognit* OR ` +
	`Joint Attention OR Development* OR Interaction* OR Support OR Assistive OR  Educat* OR Learn* OR Teach* OR ` +
	`Child-Directed OR vocaliz* OR vocabular*))`

func defaultCategoryRules() []CategoryRule {
	return []CategoryRule{
		{"REVIEW", `(("systematic review" OR "meta-analysis" OR "scoping review" OR "umbrella review" OR "rapid review" ` +
			`OR "literature review" OR "review article" OR "review of" OR "a review" ` +
			`OR "systematic mapping" OR "systematic mapping study" OR "mapping study" ` +
			`OR "bibliometric analysis" OR "literature survey" OR "survey of" OR "survey on" ` +
			`OR "state of the art" OR "state-of-the-art"))`},
		{"CASE_STUDY", "((case study))"},
		{"HRI", "((human-robot interaction OR hri OR human robot interaction OR human-robot OR human robot))"},
		{"HCI", "((human-computer interaction OR hci OR human computer interaction OR human-computer OR human computer))"},
		{"SR", "((social robot* OR assistive robot OR social) ANDNOT (child*))"},
		{"AUTISM", "((autis*))"},
		{"Editorial", "((editor*))"},
		{"EDUCATION", "((robot* OR child*) AND (educat* OR learning OR teaching OR classroom OR school* OR curriculum OR training))"},
		{"HEALTHCARE", "((robot*) AND (health* OR assistive OR therapy OR rehabilitation OR medical OR hospital))"},
		{"INDUSTRIAL", "((robot*) AND (manufactur* OR industry OR automation OR assembly OR robotic arm OR factory))"},
		{"ASSISTIVE_TECH", "((assistive technology OR assistive robot* OR accessibility OR disability OR rehabilitation))"},
		{"SPEECH_PROCESSING", "((speech* OR vocaliz* OR voice OR linguistic OR talker OR phonetics OR communicat*))"},
		{"ETHICS", "((ethic* OR moral* OR responsible AI OR bias OR fairness OR transparency OR accountability))"},
		{"SOCIAL_IMPACT", "((robot*) AND (societal impact OR policy OR acceptance OR adoption OR integration OR trust))"},
		{"NEUROROBOTICS", "((neurorobot* OR cognitive robotics OR brain-inspired robotics OR neural network OR bio-inspired OR perception-action OR predictive coding))"},
		{"AUGMENTED_REALITY", "((augmented reality OR AR OR virtual reality OR VR OR mixed reality OR XR OR immersive technology))"},
		{"PERCEPTION", "((robot* AND (perception OR vision OR recognition OR sensory OR object detection OR image processing)))"},
		{"EMOTION_RECOGNITION", "((emotion recognition OR affective computing OR sentiment analysis OR facial expression OR emotion AI OR mood detection))"},
		{"AUTONOMOUS_SYSTEMS", "((autonomous system* OR self-driving OR navigation OR decision-making OR reinforcement learning OR planning))"},
		{"SWARM_ROBOTICS", "((swarm robotics OR collective intelligence OR multi-robot* OR decentralized control OR distributed systems))"},
		{"SECURITY_PRIVACY", "((robot* AND (cybersecurity OR privacy OR hacking OR data protection OR authentication OR encryption)))"},
		{"EXOSKELETONS", "((exoskeleton* OR wearable robot* OR assistive mobility OR prosthetic OR rehabilitation robot*))"},
		{"HUMAN_FACTORS", "((human factors OR usability OR user experience OR ergonomics OR cognitive load OR workload OR affordances))"},
		{"MACHINE_LEARNING", "((machine learning OR deep learning OR artificial intelligence OR AI OR reinforcement learning OR neural networks))"},
		{"SURGICAL_ROBOTICS", "((robot assisted surgery OR surgical robotics OR robotic surgery OR minimally invasive surgery OR orthopedic surgery OR neurosurgery OR reconstructive surgery OR colorectal surgery OR knee surgery OR total knee arthroplasty))"},
		{"MEDICAL_EDUCATION", "((medical education OR surgical training OR simulation training OR healthcare training OR interprofessional education OR patient safety OR medical literature))"},
		{"GERIATRIC_ROBOTICS", "((robot* AND (aging OR geriatric care OR elderly care OR nursing home OR patient transport OR assistive technology OR robotic caregivers)))"},
		{"AGRICULTURAL_ROBOTICS", "((agriculture OR agricultural robot* OR autonomous farming OR precision farming OR smart agriculture OR fruit picker OR crop production))"},
		{"TECHNOLOGY_IMPACT", "((technology AND (social impact OR political system OR government OR democracy OR legal aspect OR public opinion OR ethics)))"},
		{"SOCIAL_MEDIA", "((robot* AND (social media OR web interaction OR online system OR mass communication OR human-computer interaction)))"},
		{"USER_AUTONOMY", "((user autonomy OR human autonomy OR decision-making OR independence OR personalized AI OR self-learning systems))"},
		{"METAVERSE_ROBOTICS", "((metaverse OR virtual reality OR augmented reality OR immersive technology OR 3D imaging OR digital twin OR simulation training))"},
	}
}

func defaultPriority() []string {
	return []string{
		"REVIEW", "CRI", "HRI", "HCI", "EDUCATION", "HEALTHCARE", "INDUSTRIAL",
		"ASSISTIVE_TECH", "SPEECH_PROCESSING", "ETHICS", "SOCIAL_IMPACT",
		"NEUROROBOTICS", "AUGMENTED_REALITY", "PERCEPTION", "EMOTION_RECOGNITION",
		"AUTONOMOUS_SYSTEMS", "SWARM_ROBOTICS", "SECURITY_PRIVACY", "EXOSKELETONS",
		"HUMAN_FACTORS", "MACHINE_LEARNING", "SURGICAL_ROBOTICS", "MEDICAL_EDUCATION",
		"GERIATRIC_ROBOTICS", "AGRICULTURAL_ROBOTICS", "TECHNOLOGY_IMPACT",
		"SOCIAL_MEDIA", "USER_AUTONOMY", "METAVERSE_ROBOTICS", "SR", "AUTISM",
		"Editorial",
	}
}

const defaultCriteria = `You evaluate research papers for inclusion in a child–robot interaction (CRI) corpus.
Return ONLY a flat JSON object with EXACTLY these 2 keys:
  - "Related": one of ["Yes","No"].
  - "Justification": a single sentence (no line breaks) that cites decisive evidence from the text for why it is related or not related.

Eligibility criteria (ALL must be satisfied for "Yes"):
1) Peer-reviewed journal or conference paper.
2) Empirical methodology (e.g., experiment, field study, RCT, case study with data); not a review, position paper, design fiction, conceptual, dataset-only, or purely technical without human participants.
3) Participants are typically developing children (do NOT include clinical/special-needs-only samples unless a typically developing child cohort is clearly analyzed separately).
4) A physical robot is used as hardware in the experiment (not only virtual agents/avatars/apps/videos; telepresence counts only if a physical robot body mediates the interaction).
5) Primary focus is developmentally relevant learning outcomes (e.g., language/literacy, mathematics, science/CT, meta-learning/self-regulation, social–emotional development, collaboration/prosociality, health knowledge/habits, civic/green habits). Pure usability/likeability-only without a learning/development outcome is NOT eligible.

Disqualify if ANY of the following applies:
- Survey/review/editorial/position/vision; or purely technical (perception/control) without a human-child study.
- Participants are adults, university students, or only clinical/special-needs without a distinct typically developing child cohort.
- Only virtual agents or screens; no robot hardware used in the child study.
- Outcomes focus only on system performance/usability without learning/development relevance.

Output rules:
A) Use ONLY double quotes; no markdown; no newlines inside values; no extra keys.
B) If evidence is ambiguous, answer "No" and explain briefly.
C) In "Justification", cite concrete cues (e.g., sample, ages, robot name, setting, outcome) that drove your decision.
`
