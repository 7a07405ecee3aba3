package gemini

import "github.com/google/generative-ai-go/genai"

// Response schemas submitted with every request so the model is constrained
// to the exact report shapes. Descriptions double as field-level prompt
// guidance.

func recommendedInsulinsSchema(description string) *genai.Schema {
	return &genai.Schema{
		Type:        genai.TypeArray,
		Description: description,
		Items: &genai.Schema{
			Type: genai.TypeObject,
			Properties: map[string]*genai.Schema{
				"type":     {Type: genai.TypeString, Enum: []string{"NPH", "Regular"}},
				"dose":     {Type: genai.TypeNumber},
				"schedule": {Type: genai.TypeString, Description: "Horário da aplicação. Ex: 'Manhã (07:00)', 'Almoço (12:30)', 'Noite (22:00)'"},
			},
			Required: []string{"type", "dose", "schedule"},
		},
	}
}

func conductSchema(insulinsDescription, nphExample, regularExample, adoDescription string) *genai.Schema {
	return &genai.Schema{
		Type: genai.TypeObject,
		Properties: map[string]*genai.Schema{
			"recommendedInsulins": recommendedInsulinsSchema(insulinsDescription),
			"nphDoseText":         {Type: genai.TypeString, Description: nphExample},
			"regularDosePlanText": {Type: genai.TypeString, Description: regularExample},
			"adoManagement":       {Type: genai.TypeString, Description: adoDescription},
		},
		Required: []string{"recommendedInsulins", "nphDoseText", "regularDosePlanText", "adoManagement"},
	}
}

var reportSchema = &genai.Schema{
	Type: genai.TypeObject,
	Properties: map[string]*genai.Schema{
		"clinicalSummary":    {Type: genai.TypeString, Description: "Resumo clínico conciso do paciente."},
		"goalClassification": {Type: genai.TypeString, Description: "Classificação do controle glicêmico (dentro/fora da meta)."},
		"calculations": {
			Type: genai.TypeObject,
			Properties: map[string]*genai.Schema{
				"targetHbA1c":        {Type: genai.TypeString, Description: "Meta de HbA1c para este paciente."},
				"nphInitialDose":     {Type: genai.TypeString, Description: "Cálculo da dose inicial de insulina NPH."},
				"nphAdjustment":      {Type: genai.TypeString, Description: "Sugestão de ajuste semanal para NPH."},
				"regularInitialDose": {Type: genai.TypeString, Description: "Cálculo da dose inicial de insulina Regular, se indicada."},
			},
			Required: []string{"targetHbA1c", "nphInitialDose", "nphAdjustment", "regularInitialDose"},
		},
		"finalConduct": conductSchema(
			"Array estruturado das doses de insulina recomendadas para o gráfico.",
			"Descrição textual da dose de NPH. Ex: 20U pela manhã e 10U à noite",
			"Descrição textual do plano de Regular. Ex: 4U antes do almoço",
			"Recomendação sobre manter ou suspender antidiabéticos orais.",
		),
		"identifiedRisks":       {Type: genai.TypeArray, Items: &genai.Schema{Type: genai.TypeString}, Description: "Lista de riscos identificados (ex: hipoglicemia)."},
		"complementaryConducts": {Type: genai.TypeArray, Items: &genai.Schema{Type: genai.TypeString}, Description: "Lista de condutas complementares (ex: educação, monitorização)."},
		"followUpPlan":          {Type: genai.TypeString, Description: "Plano de seguimento sugerido (ex: reavaliar em 7-14 dias)."},
		"guidelineReference":    {Type: genai.TypeString, Description: "Trecho da diretriz SBD/SUS que embasa a decisão."},
	},
	Required: []string{"clinicalSummary", "goalClassification", "calculations", "finalConduct", "identifiedRisks", "complementaryConducts", "followUpPlan", "guidelineReference"},
}

var adjustmentReportSchema = &genai.Schema{
	Type: genai.TypeObject,
	Properties: map[string]*genai.Schema{
		"goalClassification": {Type: genai.TypeString, Description: "Classificação do controle glicêmico atual do paciente (DENTRO ou FORA DA META), para ser usada no próximo seguimento."},
		"situationAnalysis":  {Type: genai.TypeString, Description: "Breve análise da situação atual do paciente."},
		"adjustedConduct": conductSchema(
			"Array estruturado das doses de insulina AJUSTADAS para o gráfico.",
			"Descrição textual da NOVA dose de NPH. Ex: 22U pela manhã e 12U à noite",
			"Descrição textual do NOVO plano de Regular. Ex: 6U antes do almoço",
			"Recomendação sobre manter ou suspender antidiabéticos orais após o ajuste.",
		),
		"monitoringPlan": {Type: genai.TypeString, Description: "Plano de monitorização para os próximos dias, focado nos pontos de ajuste."},
		"nextGoals":      {Type: genai.TypeString, Description: "Metas claras para a próxima reavaliação (ex: Glicemia de jejum entre 80-130 mg/dL)."},
	},
	Required: []string{"goalClassification", "situationAnalysis", "adjustedConduct", "monitoringPlan", "nextGoals"},
}

var handoutSchema = &genai.Schema{
	Type: genai.TypeObject,
	Properties: map[string]*genai.Schema{
		"storageInstructions":     {Type: genai.TypeString, Description: "Instruções claras sobre como armazenar a insulina (geladeira, etc)."},
		"applicationInstructions": {Type: genai.TypeString, Description: "Instruções passo-a-passo sobre como aplicar a insulina (locais, rodízio, etc)."},
		"hypoglycemiaManagement":  {Type: genai.TypeString, Description: "O que fazer em caso de hipoglicemia (<70 mg/dL), incluindo a regra dos 15."},
		"hyperglycemiaManagement": {Type: genai.TypeString, Description: "O que fazer em caso de hiperglicemia, quando procurar o médico."},
		"generalRecommendations":  {Type: genai.TypeString, Description: "Recomendações gerais sobre dieta, exercício e monitorização."},
	},
	Required: []string{"storageInstructions", "applicationInstructions", "hypoglycemiaManagement", "hyperglycemiaManagement", "generalRecommendations"},
}
