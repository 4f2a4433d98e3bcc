package gen

import (
	"encoding/xml"
	"errors"
	"fmt"
	"os"
	"os/exec"
	"path/filepath"
	"slices"
	"strings"

	"github.com/google/uuid"
	"github.com/qobs-build/shadermake/internal/project"
)

//
// structures for .vcxproj
//

type VSProject struct {
	XMLName              xml.Name                `xml:"Project"`
	DefaultTargets       string                  `xml:"DefaultTargets,attr"`
	ToolsVersion         string                  `xml:"ToolsVersion,attr"`
	XMLNS                string                  `xml:"xmlns,attr"`
	PropertyGroups       []VSPropertyGroup       `xml:"PropertyGroup"`
	ItemGroups           []VSItemGroup           `xml:"ItemGroup"`
	ImportGroups         []VSImportGroup         `xml:"ImportGroup"`
	ItemDefinitionGroups []VSItemDefinitionGroup `xml:"ItemDefinitionGroup"`
	Imports              []VSImport              `xml:"Import"`
}

type VSItemGroup struct {
	Label                 string                   `xml:"Label,attr,omitempty"`
	ProjectConfigurations []VSProjectConfiguration `xml:"ProjectConfiguration,omitempty"`
	ClCompiles            []VSClCompile            `xml:"ClCompile,omitempty"`
	ClIncludes            []VSClInclude            `xml:"ClInclude,omitempty"`
	CustomBuilds          []VSCustomBuild          `xml:"CustomBuild,omitempty"`
	Nones                 []VSNone                 `xml:"None,omitempty"`
}

type VSProjectConfiguration struct {
	Include       string `xml:"Include,attr"`
	Configuration string `xml:"Configuration"`
	Platform      string `xml:"Platform"`
}

type VSClCompile struct {
	Include string `xml:"Include,attr"`
}

type VSClInclude struct {
	Include   string `xml:"Include,attr"`
	Condition string `xml:"Condition,attr,omitempty"`
}

type VSNone struct {
	Include string `xml:"Include,attr"`
}

// VSCustomBuild runs a command for a single file, per configuration
type VSCustomBuild struct {
	Include     string          `xml:"Include,attr"`
	FileType    string          `xml:"FileType,omitempty"`
	Commands    []VSConditional `xml:"Command"`
	Outputs     []VSConditional `xml:"Outputs"`
	Messages    []VSConditional `xml:"Message"`
	LinkObjects []VSConditional `xml:"LinkObjects"`
}

type VSConditional struct {
	Condition string `xml:"Condition,attr"`
	Value     string `xml:",chardata"`
}

type VSPropertyGroup struct {
	Label                        string `xml:"Label,attr,omitempty"`
	Condition                    string `xml:"Condition,attr,omitempty"`
	PreferredToolArchitecture    string `xml:"PreferredToolArchitecture,omitempty"`
	ProjectGuid                  string `xml:"ProjectGuid,omitempty"`
	Keyword                      string `xml:"Keyword,omitempty"`
	WindowsTargetPlatformVersion string `xml:"WindowsTargetPlatformVersion,omitempty"`
	ProjectName                  string `xml:"ProjectName,omitempty"`
	ConfigurationType            string `xml:"ConfigurationType,omitempty"`
	PlatformToolset              string `xml:"PlatformToolset,omitempty"`
	CharacterSet                 string `xml:"CharacterSet,omitempty"`
	OutDir                       string `xml:"OutDir,omitempty"`
	IntDir                       string `xml:"IntDir,omitempty"`
	TargetName                   string `xml:"TargetName,omitempty"`
	TargetExt                    string `xml:"TargetExt,omitempty"`
	LinkIncremental              *bool  `xml:"LinkIncremental,omitempty"`
	GenerateManifest             bool   `xml:"GenerateManifest,omitempty"`
	UseDebugLibraries            *bool  `xml:"UseDebugLibraries,omitempty"`
	WholeProgramOptimization     *bool  `xml:"WholeProgramOptimization,omitempty"`
}

type VSImportGroup struct {
	Label   string     `xml:"Label,attr,omitempty"`
	Imports []VSImport `xml:"Import"`
}

type VSImport struct {
	Project   string `xml:"Project,attr"`
	Condition string `xml:"Condition,attr,omitempty"`
	Label     string `xml:"Label,attr,omitempty"`
}

type VSItemDefinitionGroup struct {
	Condition string          `xml:"Condition,attr"`
	ClCompile VSCppCompileDef `xml:"ClCompile"`
	Link      VSLinkDef       `xml:"Link"`
	Lib       *VSLibDef       `xml:"Lib,omitempty"`
}

type VSCppCompileDef struct {
	WarningLevel                 string `xml:"WarningLevel"`
	SDLCheck                     bool   `xml:"SDLCheck"`
	AdditionalIncludeDirectories string `xml:"AdditionalIncludeDirectories"`
	PreprocessorDefinitions      string `xml:"PreprocessorDefinitions"`
	ConformanceMode              bool   `xml:"ConformanceMode"`
	Optimization                 string `xml:"Optimization,omitempty"`
	BasicRuntimeChecks           string `xml:"BasicRuntimeChecks,omitempty"`
	DebugInformationFormat       string `xml:"DebugInformationFormat,omitempty"`
	RuntimeLibrary               string `xml:"RuntimeLibrary,omitempty"`
	FunctionLevelLinking         *bool  `xml:"FunctionLevelLinking,omitempty"`
	IntrinsicFunctions           *bool  `xml:"IntrinsicFunctions,omitempty"`
	AdditionalOptions            string `xml:"AdditionalOptions,omitempty"`
}

type VSLinkDef struct {
	SubSystem                    string `xml:"SubSystem"`
	GenerateDebugInformation     *bool  `xml:"GenerateDebugInformation,omitempty"`
	AdditionalDependencies       string `xml:"AdditionalDependencies"`
	AdditionalLibraryDirectories string `xml:"AdditionalLibraryDirectories,omitempty"`
	ProgramDataBaseFile          string `xml:"ProgramDataBaseFile,omitempty"`
	AdditionalOptions            string `xml:"AdditionalOptions,omitempty"`
	EnableCOMDATFolding          *bool  `xml:"EnableCOMDATFolding,omitempty"`
	OptimizeReferences           *bool  `xml:"OptimizeReferences,omitempty"`
}

type VSLibDef struct {
	AdditionalDependencies       string `xml:"AdditionalDependencies,omitempty"`
	AdditionalLibraryDirectories string `xml:"AdditionalLibraryDirectories,omitempty"`
}

type VSFiltersProject struct {
	XMLName      xml.Name             `xml:"Project"`
	ToolsVersion string               `xml:"ToolsVersion,attr"`
	XMLNS        string               `xml:"xmlns,attr"`
	ItemGroups   []VSFiltersItemGroup `xml:"ItemGroup"`
}

type VSFiltersItemGroup struct {
	ClCompiles   []VSFiltersItem   `xml:"ClCompile,omitempty"`
	ClIncludes   []VSFiltersItem   `xml:"ClInclude,omitempty"`
	CustomBuilds []VSFiltersItem   `xml:"CustomBuild,omitempty"`
	Nones        []VSFiltersItem   `xml:"None,omitempty"`
	Filters      []VSFiltersFilter `xml:"Filter,omitempty"`
}

type VSFiltersItem struct {
	Include string `xml:"Include,attr"`
	Filter  string `xml:"Filter"`
}

type VSFiltersFilter struct {
	Include          string `xml:"Include,attr"`
	UniqueIdentifier string `xml:"UniqueIdentifier"`
	Extensions       string `xml:"Extensions,omitempty"`
}

const (
	msbuildNamespace = "http://schemas.microsoft.com/developer/msbuild/2003"

	filterSources   = "Source Files"
	filterHeaders   = "Header Files"
	filterShaders   = "Shader Files"
	filterGenerated = "Generated Files"
)

//
// generator
//

type VS2022Gen struct {
	projects []*project.Project
}

func NewVS2022Gen() *VS2022Gen {
	return &VS2022Gen{}
}

func (g *VS2022Gen) BuildFile() string {
	for _, p := range g.projects {
		if !p.Lib {
			return p.Name + ".sln"
		}
	}
	if len(g.projects) > 0 {
		return g.projects[0].Name + ".sln"
	}
	return "shadermake.sln"
}

func (g *VS2022Gen) AddProject(p *project.Project) {
	g.projects = append(g.projects, p)
}

// guid derives a stable GUID from name, so regenerating keeps Visual Studio's
// per-project state
func guid(kind, name string) string {
	return strings.ToUpper(uuid.NewSHA1(uuid.NameSpaceURL, []byte("shadermake:"+kind+":"+name)).String())
}

func (g *VS2022Gen) Generate() (string, error) {
	if len(g.projects) == 0 {
		return "", errors.New("vs2022: no projects to generate")
	}

	for _, p := range g.projects {
		buildDir := filepath.Join(p.RootPath, "build")
		projectDir := filepath.Join(buildDir, p.Name)
		if err := os.MkdirAll(projectDir, 0755); err != nil {
			return "", err
		}

		items := classifyItems(p, projectDir)
		if err := g.generateProjectFile(projectDir, p, items); err != nil {
			return "", fmt.Errorf("failed to generate project file for %s: %w", p.Name, err)
		}
		if err := g.generateFiltersFile(projectDir, p, items); err != nil {
			return "", fmt.Errorf("failed to generate filters file for %s: %w", p.Name, err)
		}
	}

	return g.generateSolutionFile(), nil
}

func (g *VS2022Gen) solutionConfigurations() []string {
	var names []string
	for _, p := range g.projects {
		for _, conf := range p.Configurations() {
			if !slices.Contains(names, conf.Name()) {
				names = append(names, conf.Name())
			}
		}
	}
	slices.Sort(names)
	return names
}

func (g *VS2022Gen) generateSolutionFile() string {
	configurations := g.solutionConfigurations()
	var sb strings.Builder

	writeln(&sb, "Microsoft Visual Studio Solution File, Format Version 12.00")
	writeln(&sb, "# Visual Studio Version 17")
	for _, p := range g.projects {
		// Windows (Visual C++) https://github.com/VISTALL/visual-studio-project-type-guids
		writeln(&sb,
			`Project("{8BC9CEB8-8B4A-11D0-8D11-00A0C91BC942}") = "`, p.Name, `", "`, p.Name, `\`, p.Name, `.vcxproj", "{`, guid("project", p.Name), `}"`,
		)
		writeln(&sb, "EndProject")
	}
	writeln(&sb, "Global")
	writeln(&sb, "\tGlobalSection(SolutionConfigurationPlatforms) = preSolution")
	for _, name := range configurations {
		writeln(&sb, "\t\t", name, " = ", name)
	}
	writeln(&sb, "\tEndGlobalSection")
	writeln(&sb, "\tGlobalSection(ProjectConfigurationPlatforms) = postSolution")
	for _, p := range g.projects {
		id := guid("project", p.Name)
		for _, conf := range p.Configurations() {
			writeln(&sb, "\t\t{", id, "}.", conf.Name(), ".ActiveCfg = ", conf.Name())
			writeln(&sb, "\t\t{", id, "}.", conf.Name(), ".Build.0 = ", conf.Name())
		}
	}
	writeln(&sb, "\tEndGlobalSection")
	writeln(&sb, "\tGlobalSection(SolutionProperties) = preSolution")
	writeln(&sb, "\t\tHideSolutionNode = FALSE")
	writeln(&sb, "\tEndGlobalSection")
	writeln(&sb, "\tGlobalSection(ExtensibilityGlobals) = postSolution")
	writeln(&sb, "\t\tSolutionGuid = {", guid("solution", g.BuildFile()), "}")
	writeln(&sb, "\tEndGlobalSection")
	writeln(&sb, "EndGlobal")

	return sb.String()
}

// vsItems is the file list of a project sorted into MSBuild item types
type vsItems struct {
	clCompiles   []VSClCompile
	clIncludes   []VSClInclude
	customBuilds []VSCustomBuild
	nones        []VSNone
}

func condition(conf *project.Configuration) string {
	return "'$(Configuration)|$(Platform)'=='" + conf.Name() + "'"
}

func relPath(projectDir, path string) string {
	rel, err := filepath.Rel(projectDir, filepath.FromSlash(path))
	if err != nil {
		return path
	}
	return rel
}

func classifyItems(p *project.Project, projectDir string) vsItems {
	var items vsItems

	claimed := make(map[string]int)
	for _, file := range p.Sources.Files() {
		if !filepath.IsAbs(file) {
			file = filepath.Join(p.RootPath, file)
		}
		file = filepath.Clean(file)
		rel := relPath(projectDir, file)
		switch {
		case isHeader(file):
			items.clIncludes = append(items.clIncludes, VSClInclude{Include: rel})
		case isCxx(file):
			items.clCompiles = append(items.clCompiles, VSClCompile{Include: rel})
		default:
			claimed[file] = len(items.customBuilds)
			items.customBuilds = append(items.customBuilds, VSCustomBuild{Include: rel})
		}
	}

	// steps of every configuration land on the same CustomBuild item
	for _, conf := range p.Configurations() {
		cond := condition(conf)
		for _, step := range conf.CustomFileBuildSteps() {
			i, ok := claimed[step.KeyInput]
			if !ok {
				i = len(items.customBuilds)
				claimed[step.KeyInput] = i
				items.customBuilds = append(items.customBuilds, VSCustomBuild{Include: relPath(projectDir, step.KeyInput)})
			}
			cb := &items.customBuilds[i]
			cb.FileType = "Document"
			cb.Commands = append(cb.Commands, VSConditional{Condition: cond, Value: step.CommandLine})
			cb.Outputs = append(cb.Outputs, VSConditional{Condition: cond, Value: filepath.FromSlash(step.Output)})
			cb.Messages = append(cb.Messages, VSConditional{Condition: cond, Value: step.Description})
			cb.LinkObjects = append(cb.LinkObjects, VSConditional{Condition: cond, Value: "false"})

			items.clIncludes = append(items.clIncludes, VSClInclude{Include: relPath(projectDir, step.Output), Condition: cond})
		}
	}

	// files that no step claimed are listed but not built
	kept := items.customBuilds[:0]
	for _, cb := range items.customBuilds {
		if len(cb.Commands) == 0 {
			items.nones = append(items.nones, VSNone{Include: cb.Include})
			continue
		}
		kept = append(kept, cb)
	}
	items.customBuilds = kept

	return items
}

func (g *VS2022Gen) generateProjectFile(projectDir string, p *project.Project, items vsItems) error {
	configurations := p.Configurations()

	projectConfigurations := make([]VSProjectConfiguration, 0, len(configurations))
	for _, conf := range configurations {
		projectConfigurations = append(projectConfigurations, VSProjectConfiguration{
			Include:       conf.Name(),
			Configuration: string(conf.Optimization),
			Platform:      conf.Platform,
		})
	}

	allPropertyGroups := []VSPropertyGroup{
		{PreferredToolArchitecture: "x64"},
	}
	allPropertyGroups = append(allPropertyGroups, g.createGlobalPropertyGroups(p.Name, guid("project", p.Name))...)
	allPropertyGroups = append(allPropertyGroups, g.createConfigurationPropertyGroups(p)...)

	allItemGroups := []VSItemGroup{
		{
			Label:                 "ProjectConfigurations",
			ProjectConfigurations: projectConfigurations,
		},
		{ClCompiles: items.clCompiles},
		{ClIncludes: items.clIncludes},
		{CustomBuilds: items.customBuilds},
	}
	if len(items.nones) > 0 {
		allItemGroups = append(allItemGroups, VSItemGroup{Nones: items.nones})
	}

	allImports := []VSImport{
		{Project: `$(VCTargetsPath)\Microsoft.Cpp.Default.props`},
	}
	allImports = append(allImports, g.createStandardImports()...)
	allImports = append(allImports, VSImport{Project: `$(VCTargetsPath)\Microsoft.Cpp.targets`})

	vcxproj := VSProject{
		DefaultTargets:       "Build",
		ToolsVersion:         "17.0",
		XMLNS:                msbuildNamespace,
		PropertyGroups:       allPropertyGroups,
		ItemGroups:           allItemGroups,
		ItemDefinitionGroups: g.createItemDefinitionGroups(p),
		Imports:              allImports,
		ImportGroups:         []VSImportGroup{{Label: "ExtensionTargets"}},
	}

	output, err := xml.MarshalIndent(vcxproj, "", "  ")
	if err != nil {
		return err
	}
	return os.WriteFile(filepath.Join(projectDir, p.Name+".vcxproj"), []byte(xml.Header+string(output)), 0644)
}

func (g *VS2022Gen) createGlobalPropertyGroups(name, guid string) []VSPropertyGroup {
	return []VSPropertyGroup{
		{
			Label:                        "Globals",
			ProjectGuid:                  "{" + guid + "}",
			Keyword:                      "Win32Proj",
			WindowsTargetPlatformVersion: "10.0",
			ProjectName:                  name,
		},
	}
}

func (g *VS2022Gen) createConfigurationPropertyGroups(p *project.Project) []VSPropertyGroup {
	var groups []VSPropertyGroup
	for _, conf := range p.Configurations() {
		debug := conf.IsDebug()
		group := VSPropertyGroup{
			Condition:         condition(conf),
			Label:             "Configuration",
			ConfigurationType: getConfigurationType(p.Lib),
			PlatformToolset:   "v143",
			CharacterSet:      "Unicode",
			UseDebugLibraries: &debug,
		}
		if !debug {
			wpo := true
			group.WholeProgramOptimization = &wpo
		}
		groups = append(groups, group)
	}

	for _, conf := range p.Configurations() {
		incremental := conf.IsDebug()
		groups = append(groups, VSPropertyGroup{
			Condition:        condition(conf),
			OutDir:           withTrailingSeparator(conf.OutputPath),
			IntDir:           withTrailingSeparator(conf.IntermediatePath),
			TargetName:       p.Name,
			TargetExt:        getTargetExt(p.Lib),
			LinkIncremental:  &incremental,
			GenerateManifest: true,
		})
	}
	return groups
}

func withTrailingSeparator(dir string) string {
	if dir == "" {
		return ""
	}
	return strings.TrimRight(filepath.FromSlash(dir), `\/`) + `\`
}

func (g *VS2022Gen) createItemDefinitionGroups(p *project.Project) []VSItemDefinitionGroup {
	var groups []VSItemDefinitionGroup
	for _, conf := range p.Configurations() {
		trueVal, falseVal := true, false
		debug := conf.IsDebug()

		compile := VSCppCompileDef{
			WarningLevel:                 "Level3",
			SDLCheck:                     true,
			AdditionalIncludeDirectories: joinIncludes(conf.IncludePaths),
			PreprocessorDefinitions:      joinDefines(conf.Defines, debug),
			ConformanceMode:              true,
			AdditionalOptions:            joinOptions(conf.Cflags),
		}
		link := VSLinkDef{
			SubSystem:                    "Windows",
			AdditionalDependencies:       joinLibraries(conf.Libraries, !p.Lib),
			AdditionalLibraryDirectories: joinLibraryDirs(conf.LibraryPaths),
			ProgramDataBaseFile:          `$(OutDir)$(TargetName).pdb`,
			AdditionalOptions:            "%(AdditionalOptions) /machine:x64",
		}
		if debug {
			compile.Optimization = "Disabled"
			compile.BasicRuntimeChecks = "EnableFastChecks"
			compile.DebugInformationFormat = "ProgramDatabase"
			compile.RuntimeLibrary = "MultiThreadedDebugDLL"
			link.GenerateDebugInformation = &trueVal
		} else {
			compile.Optimization = "MaxSpeed"
			compile.RuntimeLibrary = "MultiThreadedDLL"
			compile.FunctionLevelLinking = &trueVal
			compile.IntrinsicFunctions = &trueVal
			link.GenerateDebugInformation = &falseVal
			link.EnableCOMDATFolding = &trueVal
			link.OptimizeReferences = &trueVal
		}

		group := VSItemDefinitionGroup{
			Condition: condition(conf),
			ClCompile: compile,
			Link:      link,
		}
		if p.Lib {
			group.Lib = &VSLibDef{
				AdditionalDependencies:       joinLibraries(conf.Libraries, false),
				AdditionalLibraryDirectories: joinLibraryDirs(conf.LibraryPaths),
			}
		}
		groups = append(groups, group)
	}
	return groups
}

func (g *VS2022Gen) createStandardImports() []VSImport {
	return []VSImport{
		{Project: `$(VCTargetsPath)\Microsoft.Cpp.props`},
		{Project: `$(UserRootDir)\Microsoft.Cpp.$(Platform).user.props`, Condition: `exists('$(UserRootDir)\Microsoft.Cpp.$(Platform).user.props')`, Label: "LocalAppDataPlatform"},
	}
}

func (g *VS2022Gen) generateFiltersFile(projectDir string, p *project.Project, items vsItems) error {
	group := VSFiltersItemGroup{}
	for _, item := range items.clCompiles {
		group.ClCompiles = append(group.ClCompiles, VSFiltersItem{Include: item.Include, Filter: filterSources})
	}
	seen := make(map[string]bool)
	for _, item := range items.clIncludes {
		if seen[item.Include] {
			continue
		}
		seen[item.Include] = true
		filter := filterHeaders
		if item.Condition != "" {
			filter = filterGenerated
		}
		group.ClIncludes = append(group.ClIncludes, VSFiltersItem{Include: item.Include, Filter: filter})
	}
	for _, item := range items.customBuilds {
		group.CustomBuilds = append(group.CustomBuilds, VSFiltersItem{Include: item.Include, Filter: filterShaders})
	}
	for _, item := range items.nones {
		filter := filterSources
		if isShader(item.Include) {
			filter = filterShaders
		}
		group.Nones = append(group.Nones, VSFiltersItem{Include: item.Include, Filter: filter})
	}

	filters := VSFiltersProject{
		ToolsVersion: "17.0",
		XMLNS:        msbuildNamespace,
		ItemGroups: []VSFiltersItemGroup{
			group,
			{Filters: []VSFiltersFilter{
				{Include: filterSources, UniqueIdentifier: "{" + guid("filter", p.Name+"/"+filterSources) + "}", Extensions: "cpp;c;cc;cxx;c++;cppm;ixx;def;odl;idl;hpj;bat;asm;asmx"},
				{Include: filterHeaders, UniqueIdentifier: "{" + guid("filter", p.Name+"/"+filterHeaders) + "}", Extensions: "h;hh;hpp;hxx;h++;hm;inl;inc;ipp;xsd"},
				{Include: filterShaders, UniqueIdentifier: "{" + guid("filter", p.Name+"/"+filterShaders) + "}", Extensions: "hlsl;hlsli;fx;fxh"},
				{Include: filterGenerated, UniqueIdentifier: "{" + guid("filter", p.Name+"/"+filterGenerated) + "}"},
			}},
		},
	}
	output, err := xml.MarshalIndent(filters, "", "  ")
	if err != nil {
		return err
	}
	return os.WriteFile(filepath.Join(projectDir, p.Name+".vcxproj.filters"), []byte(xml.Header+string(output)), 0644)
}

func (g *VS2022Gen) Invoke(buildDir string) error {
	msbuild, err := FindMsbuild()
	if err != nil {
		return err
	}

	cmd := exec.Command(msbuild, g.BuildFile())
	cmd.Dir = buildDir
	cmd.Stdout = os.Stdout
	cmd.Stderr = os.Stderr

	return cmd.Run()
}

func getConfigurationType(isLib bool) string {
	if isLib {
		return "StaticLibrary"
	}
	return "Application"
}

func getTargetExt(isLib bool) string {
	if isLib {
		return ".lib"
	}
	return ".exe"
}

func joinIncludes(paths []string) string {
	dirs := make([]string, 0, len(paths)+1)
	for _, p := range paths {
		dirs = append(dirs, filepath.FromSlash(p))
	}
	return strings.Join(append(dirs, "%(AdditionalIncludeDirectories)"), ";")
}

func joinLibraryDirs(paths []string) string {
	if len(paths) == 0 {
		return ""
	}
	dirs := make([]string, 0, len(paths)+1)
	for _, p := range paths {
		dirs = append(dirs, filepath.FromSlash(p))
	}
	return strings.Join(append(dirs, "%(AdditionalLibraryDirectories)"), ";")
}

func joinDefines(userDefines []string, isDebug bool) string {
	defines := []string{"WIN32", "_WINDOWS"}
	if isDebug {
		defines = append(defines, "_DEBUG")
	} else {
		defines = append(defines, "NDEBUG")
	}
	defines = append(defines, userDefines...)
	return strings.Join(defines, ";") + ";%(PreprocessorDefinitions)"
}

func joinOptions(cflags []string) string {
	if len(cflags) == 0 {
		return ""
	}
	return strings.Join(cflags, " ") + " %(AdditionalOptions)"
}

func joinLibraries(libraries []string, isExe bool) string {
	var libs []string
	if isExe {
		libs = append(libs, "kernel32.lib", "user32.lib", "gdi32.lib", "winspool.lib", "comdlg32.lib", "advapi32.lib", "shell32.lib", "ole32.lib", "oleaut32.lib", "uuid.lib")
	}
	for _, lib := range libraries {
		if strings.HasSuffix(strings.ToLower(lib), ".lib") {
			libs = append(libs, lib)
		} else {
			libs = append(libs, lib+".lib")
		}
	}
	return strings.Join(append(libs, "%(AdditionalDependencies)"), ";")
}
