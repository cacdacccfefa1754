package templates

import "gopkg.in/yaml.v3"

var harmonizationWorkflows = []string{
	"Kids First RNA-Seq workflow (alignment + expression + fusions + splicing)",
	"Kids First WGS or WXS T/N workflow (alignment + SNV/InDel/CNV/SV variant calls + annotation)",
	"Kids First WGS or WXS T only workflow (alignment + SNV/InDel/CNV/SV variant calls + annotation)",
	"Kids First Germline Joint Genotyping workflow (specify family or other cohort + annotation)",
	"Kids First Targeted Panel T/N workflow (alignment + SNV/InDel variant calls + annotation)",
	"Kids First Targeted Panel T only workflow (alignment + SNV/InDel variant calls + annotation)",
	"Pathogenicity Preprocessing (ClinVar, INTERVAR, AutoPVS1 annotation)",
	"AutoGVP (Automated Germline Variant Pathogenicity)",
	"AlleleCouNT (tumor allele counts for germline variant calls)",
	"Custom Workflow (specify below)",
}

func builtinTemplates() map[string]document {
	return map[string]document{
		"access_request": accessRequestTemplate(),
		"transfer":       transferTemplate(),
		"harmonization":  harmonizationTemplate(),
		"analysis":       analysisTemplate(),
	}
}

func renderDocument(doc document) (string, error) {
	content, err := yaml.Marshal(doc)
	if err != nil {
		return "", err
	}
	return string(content), nil
}

func harmonizationTemplate() document {
	return document{
		Name:        "Harmonization Request",
		Description: "Request harmonization of a cohort with benchmarked, publicly available workflows",
		Title:       "[Harmonization]",
		Labels:      []string{"harmonization"},
		Body: []blockDoc{
			{
				Type: "markdown",
				Attributes: attributesDoc{
					Value: "Use this form to submit a harmonization request for benchmarked and publicly available workflows.\nFor downstream analysis, please use the Analysis Request form.",
				},
			},
			{
				Type:        "input",
				ID:          "cohort_name",
				Attributes:  attributesDoc{Label: "Cohort Name"},
				Validations: validationsDoc{Required: true},
			},
			{
				Type: "textarea",
				ID:   "manifest",
				Attributes: attributesDoc{
					Label:       "Link to manifest",
					Description: "The manifest can be pasted or referenced.",
				},
			},
			{
				Type:        "input",
				ID:          "billing_group",
				Attributes:  attributesDoc{Label: "Billing Group"},
				Validations: validationsDoc{Required: true},
			},
			{
				Type: "checkboxes",
				ID:   "workflows",
				Attributes: attributesDoc{
					Label:   "Select Harmonization Workflow(s)",
					Options: options(harmonizationWorkflows...),
				},
				Validations: validationsDoc{Required: true},
			},
			{
				Type:       "textarea",
				ID:         "additional_info",
				Attributes: attributesDoc{Label: "Additional Information"},
			},
		},
	}
}

func analysisTemplate() document {
	return document{
		Name:        "Analysis Request",
		Description: "Request downstream analysis of harmonized data",
		Title:       "[Analysis]",
		Labels:      []string{"analysis"},
		Body: []blockDoc{
			{
				Type:        "input",
				ID:          "cohort_name",
				Attributes:  attributesDoc{Label: "Cohort Name"},
				Validations: validationsDoc{Required: true},
			},
			{
				Type: "dropdown",
				ID:   "analysis_type",
				Attributes: attributesDoc{
					Label:   "Analysis Type",
					Options: options("Differential expression", "Survival analysis", "Mutational signatures", "Other (describe below)"),
					Default: intPtr(0),
				},
				Validations: validationsDoc{Required: true},
			},
			{
				Type: "textarea",
				ID:   "question",
				Attributes: attributesDoc{
					Label:       "Scientific question",
					Placeholder: "What should the analysis answer?",
				},
				Validations: validationsDoc{Required: true},
			},
			{
				Type:        "input",
				ID:          "billing_group",
				Attributes:  attributesDoc{Label: "Billing Group"},
				Validations: validationsDoc{Required: true},
			},
			{
				Type:       "textarea",
				ID:         "additional_info",
				Attributes: attributesDoc{Label: "Additional Information"},
			},
		},
	}
}

func accessRequestTemplate() document {
	return document{
		Name:        "Access Request",
		Description: "Request access to a dataset, bucket or workspace",
		Title:       "[Access]",
		Labels:      []string{"access"},
		Body: []blockDoc{
			{
				Type: "dropdown",
				ID:   "resource_type",
				Attributes: attributesDoc{
					Label:   "Resource type",
					Options: options("Cavatica project", "S3 bucket", "Database", "Other"),
				},
				Validations: validationsDoc{Required: true},
			},
			{
				Type: "input",
				ID:   "resource",
				Attributes: attributesDoc{
					Label:       "Resource name or link",
					Placeholder: "s3://bucket/prefix",
				},
				Validations: validationsDoc{Required: true},
			},
			{
				Type: "checkboxes",
				ID:   "access_level",
				Attributes: attributesDoc{
					Label:   "Access level",
					Options: options("Read", "Write", "Admin"),
				},
				Validations: validationsDoc{Required: true},
			},
			{
				Type:       "textarea",
				ID:         "justification",
				Attributes: attributesDoc{Label: "Justification"},
			},
		},
	}
}

func transferTemplate() document {
	return document{
		Name:        "Data Transfer",
		Description: "Move data between storage locations",
		Title:       "[Transfer]",
		Labels:      []string{"transfer"},
		Body: []blockDoc{
			{
				Type:        "input",
				ID:          "source",
				Attributes:  attributesDoc{Label: "Source location"},
				Validations: validationsDoc{Required: true},
			},
			{
				Type:        "input",
				ID:          "destination",
				Attributes:  attributesDoc{Label: "Destination location"},
				Validations: validationsDoc{Required: true},
			},
			{
				Type: "textarea",
				ID:   "manifest",
				Attributes: attributesDoc{
					Label:       "Link to manifest",
					Description: "List of files to move, or a link to it.",
				},
			},
			{
				Type: "dropdown",
				ID:   "urgency",
				Attributes: attributesDoc{
					Label:   "Urgency",
					Options: options("Low", "Normal", "High"),
					Default: intPtr(1),
				},
			},
		},
	}
}

func intPtr(i int) *int {
	return &i
}
