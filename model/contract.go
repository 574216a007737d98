package model

// Contrato is the canonical contract record persisted by the import
// pipeline. NumeroContrato is the natural key: the store upserts on it and
// at most one record per distinct number survives a single import batch.
type Contrato struct {
	NumeroContrato     string  `json:"numero_contrato"`
	NumeroProcesso     string  `json:"numero_processo"`
	Objeto             string  `json:"objeto"`
	Contratado         string  `json:"contratado"`
	CnpjCpf            string  `json:"cnpj_cpf"`
	ValorInicial       float64 `json:"valor_inicial"`
	ValorAtual         float64 `json:"valor_atual"`
	DataAssinatura     string  `json:"data_assinatura"`
	DataInicioVigencia string  `json:"data_inicio_vigencia"`
	DataFimVigencia    string  `json:"data_fim_vigencia"`
	PrazoMeses         int     `json:"prazo_meses"`
	Prorrogavel        bool    `json:"prorrogavel"`
	Situacao           string  `json:"situacao"`
	GestorNome         string  `json:"gestor_nome"`
	GestorEmail        string  `json:"gestor_email"`
	GestorTelefone     string  `json:"gestor_telefone"`
	FiscalNome         string  `json:"fiscal_nome"`
	FiscalEmail        string  `json:"fiscal_email"`
	FiscalTelefone     string  `json:"fiscal_telefone"`
	Observacoes        string  `json:"observacoes,omitempty"`
}

// Situacao constants
const (
	SituacaoVigente    = "vigente"
	SituacaoEncerrado  = "encerrado"
	SituacaoSuspenso   = "suspenso"
	SituacaoRescindido = "rescindido"
)

// NaoInformado is the sentinel stored when a source spreadsheet omits an
// optional identity field (cnpj_cpf, gestor_nome, fiscal_nome).
const NaoInformado = "Não informado"
