package model

// Seed returns the placeholder resume shown before the first generation.
func Seed() ResumeData {
	return ResumeData{
		Basics: Basics{
			Name:     "张三",
			Email:    "zhangsan@example.com",
			Phone:    "138-0000-0000",
			Location: "北京",
			Title:    "资深前端开发工程师",
			Summary:  "拥有 5 年前端开发经验，精通 React 技术栈，对 Web 性能优化和 UI/UX 设计有深入研究。",
		},
		Education: []Education{
			{
				School:    "某重点大学",
				Degree:    "学士",
				Major:     "计算机科学与技术",
				StartDate: "2015",
				EndDate:   "2019",
			},
		},
		Experience: []Experience{
			{
				Company:   "某知名互联网公司",
				Position:  "高级前端工程师",
				StartDate: "2019",
				EndDate:   "至今",
				Responsibilities: []string{
					"负责公司核心业务线的前端架构设计与开发。",
					"主导了项目从传统架构向微前端架构的迁移。",
					"通过性能优化，将页面首屏加载速度提升了 40%。",
				},
			},
		},
		Projects: []Project{
			{
				Name:         "智能数据可视化平台",
				Role:         "前端负责人",
				Description:  "一个为企业提供实时数据分析和图表展示的 SaaS 平台。",
				Technologies: []string{"React", "Echarts", "TypeScript"},
			},
		},
		Skills:    []string{"JavaScript", "TypeScript", "React", "Node.js", "Tailwind CSS"},
		Languages: []string{"普通话 (母语)", "英语 (CET-6)"},
	}
}
