package ai

import (
	"fmt"
	"strings"

	"github.com/spec-kit/devops-automation/internal/domain"
)

// category describes one fallback classification bucket.
type category struct {
	name     string
	keywords []string
	commands []string
}

// Matched top to bottom; first hit wins.
var categories = []category{
	{
		name:     "Kubernetes Infrastructure",
		keywords: []string{"kubernetes", "k8s", "pod", "deployment", "namespace"},
		commands: []string{
			"kubectl get pods -n <namespace>",
			"kubectl describe pod <pod_name> -n <namespace>",
			"kubectl logs <pod_name> -n <namespace> --tail=100",
		},
	},
	{
		name:     "RabbitMQ Message Broker",
		keywords: []string{"rabbitmq", "rabbit", "queue", "message"},
		commands: []string{
			"kubectl logs <rabbitmq-pod-name> --tail=100",
			"kubectl exec -it <rabbitmq-pod> -- rabbitmqctl status",
			"kubectl exec -it <rabbitmq-pod> -- rabbitmqctl list_queues",
		},
	},
	{
		name:     "Redis Cache Service",
		keywords: []string{"redis", "cache", "session"},
		commands: []string{
			"kubectl logs <redis-pod-name> --tail=100",
			"kubectl exec -it <redis-pod> -- redis-cli ping",
			"kubectl exec -it <redis-pod> -- redis-cli info memory",
		},
	},
	{
		name:     "Kafka Streaming Platform",
		keywords: []string{"kafka", "streaming", "topic"},
		commands: []string{
			"kubectl logs <kafka-pod-name> --tail=100",
			"kubectl exec -it <kafka-pod> -- kafka-topics --list",
		},
	},
	{
		name:     "Elasticsearch Search Engine",
		keywords: []string{"elasticsearch", "elastic", "search"},
		commands: []string{
			"kubectl logs <elasticsearch-pod-name> --tail=100",
			"kubectl exec -it <es-pod> -- curl -X GET 'localhost:9200/_cluster/health'",
		},
	},
	{
		name:     "GitLab CI/CD Pipeline",
		keywords: []string{"gitlab", "ci/cd", "pipeline", "build"},
		commands: []string{
			"kubectl logs <gitlab-runner-pod> --tail=100",
			"kubectl get pods -l app=gitlab-runner",
		},
	},
	{
		name:     "Database Service",
		keywords: []string{"database", "db", "sql", "mysql", "postgres"},
		commands: []string{
			"kubectl logs <database-pod-name> --tail=100",
			"kubectl describe pod <database-pod-name>",
		},
	},
}

var defaultCategory = category{
	name: "Infrastructure Service",
	commands: []string{
		"kubectl get pods --all-namespaces",
		"kubectl get events --sort-by=.metadata.creationTimestamp",
	},
}

// FallbackAnalysis builds the deterministic templated narrative used whenever
// the generative backend cannot produce one. Same inputs, same output.
func FallbackAnalysis(ticket domain.Ticket) domain.AIAnalysis {
	return domain.AIAnalysis{
		Text:    fallbackText(ticket),
		Success: false,
		Source:  domain.AnalysisSourceFallback,
	}
}

func fallbackText(ticket domain.Ticket) string {
	cat := classify(ticket)

	envContext := ""
	if ticket.Environment != "" {
		envContext = fmt.Sprintf(" in the %s environment", strings.ToUpper(ticket.Environment))
	}

	var b strings.Builder
	fmt.Fprintf(&b, "Thank you for contacting DevOps Support regarding ticket #%d (%s), a %s issue%s.\n\n",
		ticket.ID, ticket.Priority, strings.ToLower(cat.name), envContext)
	b.WriteString("**Initial Assessment:**\n")
	fmt.Fprintf(&b, "This appears to be a %s issue that requires additional information for proper diagnosis and resolution.\n\n", cat.name)
	b.WriteString("**To assist in resolving this issue efficiently, please provide the following information:**\n\n")
	b.WriteString("1. **Error Details:** Please provide any error messages, logs, or specific symptoms observed.\n")
	b.WriteString("2. **Recent Changes:** Were there any recent deployments, configuration changes, or updates?\n")
	b.WriteString("3. **Business Impact:** Does this affect business operations, end users, or revenue?\n\n")
	b.WriteString("**Diagnostic Commands:**\nPlease run the following commands and provide the output:\n\n```\n")
	b.WriteString(strings.Join(cat.commands, "\n"))
	b.WriteString("\n```\n\n")
	b.WriteString("**Next Steps:**\nOnce we receive this information, our team will perform a comprehensive analysis and provide specific resolution steps.\n\n")
	b.WriteString("*Note: This response was generated by our automated triage system. Our AI analysis service will provide enhanced diagnostics once connectivity is restored.*")
	return b.String()
}

func classify(ticket domain.Ticket) category {
	combined := strings.ToLower(ticket.Subject + " " + ticket.Description)
	for _, cat := range categories {
		for _, keyword := range cat.keywords {
			if strings.Contains(combined, keyword) {
				return cat
			}
		}
	}
	return defaultCategory
}
