package gemini

import (
	"fmt"
	"sort"
	"strconv"
	"strings"

	"github.com/carcarahealth/glica/internal/domain"
)

// num renders a float the way the intake form displays it: no trailing
// zeros, no exponent.
func num(value float64) string {
	return strconv.FormatFloat(value, 'f', -1, 64)
}

func joinOrDefault(values []string, fallback string) string {
	if len(values) == 0 {
		return fallback
	}
	return strings.Join(values, ", ")
}

func sortedMeals(meals []domain.Meal) []domain.Meal {
	out := make([]domain.Meal, len(meals))
	copy(out, meals)
	sort.SliceStable(out, func(i, j int) bool { return out[i].Time < out[j].Time })
	return out
}

func mealsBlock(meals []domain.Meal) string {
	lines := make([]string, 0, len(meals))
	for _, meal := range sortedMeals(meals) {
		lines = append(lines, fmt.Sprintf("  - %s: %s", meal.Name, meal.Time))
	}
	return strings.Join(lines, "\n")
}

func insulinsBlock(insulins []domain.CurrentInsulin) string {
	if len(insulins) == 0 || insulins[0].Type == domain.InsulinNone {
		return "Nenhuma"
	}
	lines := make([]string, 0, len(insulins))
	for _, ins := range insulins {
		lines = append(lines, fmt.Sprintf("  - %s, %sU, %s", ins.Type, num(ins.Dose), ins.Schedule))
	}
	return strings.Join(lines, "\n")
}

func mealNameByID(meals []domain.Meal, id int) string {
	for _, meal := range meals {
		if meal.ID == id {
			return meal.Name
		}
	}
	return ""
}

func postPrandialNote(p domain.PatientData) string {
	if len(p.PostPrandialMealIDs) == 0 {
		return ""
	}
	names := make([]string, 0, len(p.PostPrandialMealIDs))
	for _, id := range p.PostPrandialMealIDs {
		names = append(names, mealNameByID(p.Meals, id))
	}
	return fmt.Sprintf(" (após %s)", strings.Join(names, ", "))
}

// mandatoryGuidelines is the fixed SBD 2024 / PCDT DM2-SUS rule block every
// initial evaluation is constrained by. The guideline year versions the
// prompt; changing this text changes clinical output.
const mandatoryGuidelines = `
    Você é um assistente clínico para médicos, especializado em Diabetes Mellitus tipo 2. Sua função é analisar os dados do paciente e gerar um plano de insulinoterapia estritamente baseado nas diretrizes da Sociedade Brasileira de Diabetes (SBD 2024) e no PCDT DM2 do SUS. Seja objetivo, profissional e forneça a saída exclusivamente no formato JSON solicitado.

    **Diretrizes Mandatórias:**

    1.  **Metas Glicêmicas:**
        *   Adultos: HbA1c < 7%
        *   Idosos (>65 anos): HbA1c < 7.5%
        *   Idosos frágeis/comorbidades graves: HbA1c < 8%
        *   Jejum ideal: 80-130 mg/dL
        *   Pós-prandial (2h): < 180 mg/dL
        *   Hipoglicemia: < 70 mg/dL

    2.  **Indicação de Insulina:**
        *   HbA1c > 9%
        *   Glicemia de jejum > 300 mg/dL
        *   Sintomas de hiperglicemia (poliúria, polidipsia, perda ponderal)
        *   Falha terapêutica com Metformina + Sulfonilureia (SU)

    3.  **Cálculo Insulina NPH (Basal):**
        *   Dose inicial: 10U à noite ou 0.2 U/kg ao deitar. Priorize 0.2 U/kg. Se a Glicemia de Jejum (GJ) estiver controlada, mas houver hiperglicemia durante o dia (ex: pré-almoço elevada), considere iniciar a NPH pela manhã.
        *   Ajuste Semanal (baseado na glicemia de jejum):
            *   GJ > 130 mg/dL: +2U ou +10-15% da dose.
            *   GJ < 70 mg/dL: -4U ou -10% da dose.
            *   GJ 80-130 mg/dL: Manter a dose.
        *   Dividir em 2 doses/dia (60-70% pré-café, 30-40% pré-jantar) se: Jejum controlado mas pré-jantar elevada, ou dose total > 0.5 U/kg.

    4.  **Cálculo Insulina Regular (Prandial):**
        *   Indicação: Glicemia pós-prandial > 180 mg/dL apesar de basal otimizada.
        *   Dose inicial: 2 a 4U antes da principal refeição. Aplicar 15-30 min antes.
        *   Ajuste (baseado na glicemia pós-prandial da refeição correspondente):
            *   GPP > 180 mg/dL: +2U
            *   GPP > 250 mg/dL: +4U
            *   GPP < 70 mg/dL: -2 a -4U

    5.  **Manejo de Antidiabéticos Orais (ADO):**
        *   Metformina: Manter, se não houver contraindicação (TFG < 30).
        *   Sulfonilureia (Gliclazida, Glibenclamida): **Suspender** se iniciar insulina basal-bolus. Manter se usar apenas basal.
        *   iSGLT2 (Dapagliflozina): Manter se TFG > 30 e houver: Risco CV alto, ICC FEVE <= 40%, ou DRC (Albuminúria > 200 mg/g).

    6.  **Perguntas de Segurança para Ajuste (Considerar no plano):**
        *   Hipoglicemias recentes?
        *   Mudança alimentar ou exercício intenso?
        *   Doença aguda / infecção?
        *   Risco de hipoglicemia noturna?
    `

// buildReportPrompt assembles the initial-evaluation prompt. Fast mode
// omits the optional clinical fields that were not collected.
func buildReportPrompt(p domain.PatientData, fastMode bool) string {
	var patientSection string
	if fastMode {
		patientSection = fmt.Sprintf(`
    **Dados do Paciente para Análise (Modo Rápido):**
    *   Idade: %d anos
    *   Peso: %s kg
    *   Controle Glicêmico: HbA1c %s%%, Jejum %s mg/dL, Pré-prandial %s mg/dL, Pós-prandial %s mg/dL%s
    *   Hipoglicemia: %s
    *   Insulinas em uso:
%s
    *   Refeições do Paciente:
%s
    `,
			p.Age, num(p.Weight),
			num(p.HbA1c), num(p.FastingGlucose), num(p.PrePrandialGlucose), num(p.PostPrandialGlucose), postPrandialNote(p),
			p.HypoglycemiaEpisodes,
			insulinsBlock(p.CurrentInsulins),
			mealsBlock(p.Meals))
	} else {
		frail := "Não"
		if p.IsFrail {
			frail = "Sim"
		}
		patientSection = fmt.Sprintf(`
    **Dados do Paciente para Análise:**
    *   Idade: %d anos
    *   Sexo: %s
    *   Peso: %s kg, Altura: %s m, IMC: %.2f kg/m²
    *   Frágil/Comorbidades graves: %s
    *   Comorbidades: %s
    *   Medicamentos em uso: %s
    *   Função Renal: Creatinina %s mg/dL, TFG %.2f ml/min, Albuminúria %s mg/g
    *   Controle Glicêmico: HbA1c %s%%, Jejum %s mg/dL, Pré-prandial %s mg/dL, Pós-prandial %s mg/dL%s
    *   Hipoglicemia: %s
    *   Sintomas Clínicos Atuais: %s
    *   Situação Clínica Especial: %s
    *   Insulinas em uso:
%s
    *   Refeições do Paciente:
%s
    `,
			p.Age, p.Sex,
			num(p.Weight), num(p.Height), p.IMC,
			frail,
			joinOrDefault(p.Comorbidities, "Nenhuma"),
			joinOrDefault(p.Medications, "Nenhum"),
			num(p.Creatinine), p.TFG, num(p.Albuminuria),
			num(p.HbA1c), num(p.FastingGlucose), num(p.PrePrandialGlucose), num(p.PostPrandialGlucose), postPrandialNote(p),
			p.HypoglycemiaEpisodes,
			joinOrDefault(p.ClinicalSymptoms, "Nenhum"),
			joinOrDefault(p.ClinicalSituation, "Nenhuma"),
			insulinsBlock(p.CurrentInsulins),
			mealsBlock(p.Meals))
	}

	return mandatoryGuidelines + "\n" + patientSection +
		"\n\nBaseado estritamente nas diretrizes acima e nos dados do paciente, gere o plano terapêutico em formato JSON. **IMPORTANTE**: No campo 'recommendedInsulins', crie um item para cada aplicação de insulina (NPH ou Regular) com a dose e o horário exato (ex: 'Manhã (07:00)') para ser usado na construção de um gráfico."
}

func highGlucoseMealNames(followUp domain.FollowUpData, meals []domain.Meal) string {
	names := make([]string, 0, len(followUp.HighGlucoseMeals))
	for _, id := range followUp.HighGlucoseMeals {
		if name := mealNameByID(meals, id); name != "" {
			names = append(names, name)
		}
	}
	if len(names) == 0 {
		return "Nenhuma específica"
	}
	return strings.Join(names, ", ")
}

func hyperglycemiaEventsBlock(events []domain.HyperglycemiaEvent) string {
	if len(events) == 0 {
		return "Nenhum momento específico de hiperglicemia foi relatado."
	}
	lines := make([]string, 0, len(events))
	for _, event := range events {
		lines = append(lines, fmt.Sprintf("  - %s: %s mg/dL", event.Time, num(event.Value)))
	}
	return strings.Join(lines, "\n")
}

func adjustmentHistoryBlock(adjustments []domain.Adjustment) string {
	if len(adjustments) == 0 {
		return "Nenhum ajuste anterior."
	}
	var b strings.Builder
	for i, adj := range adjustments {
		fmt.Fprintf(&b, `
    - **Ajuste #%d (%s)**:
      - Glicemia de Jejum: %s mg/dL, HbA1c: %s%%
      - Nova Conduta: NPH (%s), Regular (%s)
    `,
			i+1, adj.AdjustedAt.Format("02/01/2006"),
			num(adj.FollowUpData.CurrentFastingGlucose), num(adj.FollowUpData.CurrentHbA1c),
			adj.AdjustmentReport.AdjustedConduct.NPHDoseText,
			adj.AdjustmentReport.AdjustedConduct.RegularDosePlanText)
	}
	return b.String()
}

func previousConduct(req domain.AdjustmentRequest) domain.Conduct {
	if n := len(req.Adjustments); n > 0 {
		return req.Adjustments[n-1].AdjustmentReport.AdjustedConduct
	}
	return req.InitialReport.FinalConduct
}

func textOrDefault(value, fallback string) string {
	if value == "" {
		return fallback
	}
	return value
}

// buildAdjustmentPrompt assembles the follow-up consultation prompt: the
// initial case digest, the latest conduct, the full adjustment history and
// the current reassessment data.
func buildAdjustmentPrompt(req domain.AdjustmentRequest) string {
	conduct := previousConduct(req)
	followUp := req.FollowUp

	return fmt.Sprintf(`
    Você é um endocrinologista especialista em DM2, atuando como consultor para outro médico. Um paciente que iniciou insulinoterapia recentemente retorna para reavaliação. Sua tarefa é analisar os dados de seguimento e propor um **plano de ajuste terapêutico** em formato JSON.

    **Diretrizes Mandatórias para Ajuste:**
    - **Ajuste NPH (baseado na glicemia de jejum):**
        - GJ > 130 mg/dL: +2U ou +10-15%% da dose.
        - GJ < 70 mg/dL: -4U ou -10%% da dose.
    - **Ajuste NPH por Padrão Diurno:** Se a GJ estiver controlada, mas houver um padrão de hiperglicemia em outro horário (ex: pré-almoço ou pré-jantar), considere dividir a dose de NPH ou adicionar uma nova dose (ex: NPH pela manhã para controlar a glicemia da tarde).
    - **Ajuste Regular (baseado na glicemia pós-prandial da refeição correspondente):**
        - GPP > 180 mg/dL: +2U
        - GPP > 250 mg/dL: +4U
        - GPP < 70 mg/dL: -2 a -4U
    - **Cálculos baseados em peso:** Se precisar recalcular doses com base no peso (U/kg), **use o PESO ATUALIZADO** do paciente.
    - **Segurança:** Priorize a segurança, evitando hipoglicemia. Se houver hipoglicemia, reduza a dose correspondente antes de qualquer aumento.

    **1. RESUMO DO CASO INICIAL:**
    - Paciente: %d anos.
    - Diagnóstico: DM2 com HbA1c inicial de %s%%.
    - Meta Terapêutica: HbA1c %s.

    **2. PLANO TERAPÊUTICO ANTERIOR (O MAIS RECENTE):**
    - Insulina NPH: %s
    - Insulina Regular: %s
    - ADOs: %s

    **3. HISTÓRICO DE AJUSTES ANTERIORES:** %s

    **4. DADOS DA REAVALIAÇÃO ATUAL:**
    - **Peso Atual: %s kg.** (IMC inicial: %.2f kg/m²)
    - Glicemia de Jejum Atual: %s mg/dL.
    - Glicemia Pré-Prandial (média) Atual: %s mg/dL.
    - Glicemia Pós-Prandial (2h) Atual: %s mg/dL.
    - HbA1c Atual: %s%%.
    - Refeições com Hiperglicemia Pós-Prandial Persistente: %s.
    - Momentos de Hiperglicemia (Horário: Valor):
%s
    - Episódios de Hipoglicemia Recentes: %s.
    - Momentos de Hipoglicemia Recentes: %s.
    - Notas Adicionais do Médico: "%s"

    **5. SUA TAREFA (GERAR JSON):**
    Com base estritamente nas diretrizes, nos dados atuais (incluindo o **NOVO PESO**) E NO HISTÓRICO DE AJUSTES, gere o **Plano de Ajuste Terapêutico** em formato JSON.
    - Analise os **momentos de hiperglicemia** para identificar padrões que necessitem de uma nova dose de insulina (NPH ou Regular) em um novo horário.
    - No campo 'goalClassification', defina se o paciente está 'DENTRO DA META' ou 'FORA DA META'.
    - Analise a situação atual.
    - Proponha o ajuste das insulinas (NPH e/ou Regular). **Leve em conta a alteração de peso para o cálculo de doses, se necessário.**
    - Crie um novo array 'recommendedInsulins' com TODAS as doses finais (ajustadas ou não) para o novo gráfico.
    - Defina um plano de monitorização e metas.
    `,
		req.Patient.Age,
		num(req.Patient.HbA1c),
		req.InitialReport.Calculations.TargetHbA1c,
		textOrDefault(conduct.NPHDoseText, "Nenhuma"),
		textOrDefault(conduct.RegularDosePlanText, "Nenhuma"),
		conduct.ADOManagement,
		adjustmentHistoryBlock(req.Adjustments),
		num(followUp.CurrentWeight), req.Patient.IMC,
		num(followUp.CurrentFastingGlucose),
		num(followUp.CurrentPrePrandialGlucose),
		num(followUp.CurrentPostPrandialGlucose),
		num(followUp.CurrentHbA1c),
		highGlucoseMealNames(followUp, req.Patient.Meals),
		hyperglycemiaEventsBlock(followUp.HyperglycemiaEvents),
		followUp.NewHypoglycemiaEpisodes,
		joinOrDefault(followUp.HypoglycemiaTimings, "Não especificado"),
		textOrDefault(followUp.PatientNotes, "Nenhuma"))
}

// buildHandoutPrompt assembles the plain-language patient guide prompt from
// the active conduct (initial or adjusted).
func buildHandoutPrompt(patient domain.PatientData, conduct domain.Conduct) string {
	return fmt.Sprintf(`
    Você é um educador em diabetes criando um guia prático para um paciente do SUS.
    **NÃO use jargões médicos.** Use uma linguagem simples, clara e encorajadora.
    Sua tarefa é gerar um guia para o paciente em formato JSON. O texto de cada seção deve ser conciso. Use quebras de linha (\n) para separar parágrafos e itens de lista. Estruture em pequenos parágrafos e listas com marcadores para máxima clareza.
    O paciente se chama **%s**.
    O plano de tratamento com insulina dele(a) é:
    - Insulina NPH: %s
    - Insulina Regular: %s

    Gere o guia cobrindo os seguintes pontos de forma objetiva:
    1.  **storageInstructions**: Como guardar a insulina corretamente (na geladeira, etc).
    2.  **applicationInstructions**: Um passo a passo de como aplicar a insulina. **Inclua instruções detalhadas e claras para os dois tipos de aplicação: com SERINGAS e com CANETAS**, cobrindo o preparo da dose, locais de aplicação, técnica do rodízio, e o que fazer com o material após o uso.
    3.  **hypoglycemiaManagement**: O que fazer se a glicose ficar baixa (< 70 mg/dL). Explique a "Regra dos 15" (ingerir 15g de carboidrato simples, esperar 15 min e medir de novo).
    4.  **hyperglycemiaManagement**: O que fazer se a glicose ficar alta. Quando se preocupar e procurar o médico.
    5.  **generalRecommendations**: Recomendações gerais e amigáveis sobre alimentação, atividade física e a importância de medir a glicose.

    Seja direto e prático. Use negrito (com asteriscos, ex: *palavra*) o mínimo possível, apenas para destacar os alertas de segurança mais críticos (ex: *Regra dos 15*, *sintomas de hipoglicemia grave*).
    `,
		textOrDefault(patient.Name, "Paciente"),
		conduct.NPHDoseText,
		conduct.RegularDosePlanText)
}
